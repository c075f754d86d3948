package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	auth "github.com/mind-engage/examprep/internal/auth/middleware"
	"github.com/mind-engage/examprep/internal/db"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage local gateway accounts.",
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account, or reset its password and role.",
	Example: `  markctl users add --username mrs.khan --password 's3cret' --role teacher
  MARKCTL_DB_DRIVER=postgres MARKCTL_DB_DSN=postgres://... markctl users add --username admin --password x --role admin`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags()
		username, _ := f.GetString("username")
		password, _ := f.GetString("password")
		role, _ := f.GetString("role")

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(viper.GetString("db-driver")), viper.GetString("db-dsn"))
		if err != nil {
			return err
		}
		defer dbh.Close()

		id, err := auth.UpsertUser(ctx, dbh, username, password, role)
		if err != nil {
			return err
		}
		cmd.Printf("%s %s (%s)\n", id, username, role)
		return nil
	},
}

func init() {
	usersCmd.PersistentFlags().String("db-driver", "sqlite", "Database driver: sqlite or postgres")
	usersCmd.PersistentFlags().String("db-dsn", "", "Database DSN (default: local examprep.db)")
	if err := viper.BindPFlags(usersCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	usersAddCmd.Flags().String("username", "", "Login name")
	usersAddCmd.Flags().String("password", "", "Password")
	usersAddCmd.Flags().String("role", "student", "student, teacher or admin")
	_ = usersAddCmd.MarkFlagRequired("username")
	_ = usersAddCmd.MarkFlagRequired("password")
	usersCmd.AddCommand(usersAddCmd)
}
