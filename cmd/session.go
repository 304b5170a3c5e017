package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/billed/internal/core/datamodel/session"
	"github.com/frahmantamala/billed/internal/login"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	loginRole     string
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as an employee or an admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(loginRole)
		if err != nil {
			return err
		}
		return withDependencies("login", func(ctx context.Context, deps *Dependencies) error {
			_, err := loginService(ctx, deps).Submit(ctx, routes.Context{PreviousLocation: routes.Login}, role, loginForm(role))
			return err
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in with it",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(loginRole)
		if err != nil {
			return err
		}
		return withDependencies("register", func(ctx context.Context, deps *Dependencies) error {
			creds := session.Credentials{Email: loginEmail, Password: loginPassword}
			_, err := loginService(ctx, deps).Register(ctx, routes.Context{PreviousLocation: routes.Login}, role, creds)
			return err
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies("whoami", func(ctx context.Context, deps *Dependencies) error {
			current, err := loginService(ctx, deps).CurrentSession(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s), %s\n", current.Session.Email, current.Session.Type, current.Session.Status)
			if current.Claims != nil && !current.Claims.ExpiresAt.IsZero() {
				state := "valide"
				if current.Claims.Expired(time.Now()) {
					state = "expiré"
				}
				fmt.Printf("Jeton %s jusqu'au %s\n", state, current.Claims.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		})
	},
}

func loginService(ctx context.Context, deps *Dependencies) *login.Service {
	return login.NewService(login.Deps{
		Store:     deps.Store,
		Storage:   deps.Storage,
		Navigator: deps.Navigator(),
		ErrorSlots: map[session.Role]ui.ErrorSlot{
			session.RoleEmployee: deps.Console.ErrorSlot("employee"),
			session.RoleAdmin:    deps.Console.ErrorSlot("admin"),
		},
		Events: deps.Events,
		Logger: logger.From(ctx),
	})
}

func loginForm(role session.Role) ui.Values {
	if role == session.RoleAdmin {
		return ui.Values{
			login.FieldAdminEmail:    loginEmail,
			login.FieldAdminPassword: loginPassword,
		}
	}
	return ui.Values{
		login.FieldEmployeeEmail:    loginEmail,
		login.FieldEmployeePassword: loginPassword,
	}
}

func parseRole(s string) (session.Role, error) {
	switch strings.ToLower(s) {
	case "employee", "":
		return session.RoleEmployee, nil
	case "admin":
		return session.RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q, expected employee or admin", s)
	}
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&loginRole, "role", "r", "employee", "employee or admin")
		c.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
		c.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	}
}
