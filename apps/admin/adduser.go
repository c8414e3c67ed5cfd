package main

import (
	"context"
	"fmt"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/user"
)

// addUser registers a new school with its owner.
func (cli *commandLine) addUser(nu user.NewUser) error {
	ctx := context.Background()
	if err := nu.Validate(ctx, cli.validate, cli.translator, cli.usrSvc); err != nil {
		if vErr, ok := err.(*core.ValidationError); ok {
			for _, fe := range vErr.Fields {
				fmt.Printf("  %s: %s\n", fe.Field, fe.Error)
			}
		}
		return err
	}
	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s (tenant %s)\n", usr.Username, usr.TenantID)
	return nil
}
