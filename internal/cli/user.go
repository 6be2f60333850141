package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"attendly/internal/models"
)

type UserAddCmd struct {
	Name  string `arg:"" help:"Display name for the user."`
	Admin bool   `help:"Grant the user administrator rights."`
}

func (c *UserAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	user := models.User{
		ID:        uuid.NewString(),
		Name:      c.Name,
		IsAdmin:   c.Admin,
		CreatedAt: time.Now().UTC(),
	}
	if err := ctx.Store.AddUser(user); err != nil {
		return err
	}
	fmt.Printf("Added user %s (%s)\n", user.Name, user.ID)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	users, err := ctx.Store.Users()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No users in the directory.")
		return nil
	}
	for _, u := range users {
		role := ""
		if u.IsAdmin {
			role = "  (admin)"
		}
		fmt.Printf("%-36s  %s%s\n", u.ID, u.Name, role)
	}
	return nil
}
