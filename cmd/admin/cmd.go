package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/services"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// staffAdmin is the part of the user service the CLI drives.
type staffAdmin interface {
	CreateStaff(ctx context.Context, in services.NewStaffInput) (*models.StaffAccount, error)
	SetStaffPassword(ctx context.Context, login, password string) error
}

type commandLine struct {
	staff   staffAdmin
	migrate func(ctx context.Context) error
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createstaff -role ROLE -username USERNAME -email EMAIL -name NAME [-program P -branch B] - create a staff account")
	fmt.Fprintln(cli.out, "  resetpassword -login USERNAME|EMAIL - reset a staff account's password")
	fmt.Fprintln(cli.out, "  migrate - apply pending database migrations")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "createstaff":
		return cli.createStaffCmd(ctx, args[2:])
	case "resetpassword":
		return cli.resetPasswordCmd(ctx, args[2:])
	case "migrate":
		return cli.migrate(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) createStaffCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("createstaff", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	roleName := fs.String("role", "", "ADMIN, HOD, PRINCIPAL or VICE_PRINCIPAL")
	username := fs.String("username", "", "Login username")
	email := fs.String("email", "", "Email address")
	name := fs.String("name", "", "Display name")
	program := fs.String("program", "", "Program code (HOD only)")
	branch := fs.String("branch", "", "Branch code (HOD only)")
	designation := fs.String("designation", "", "Designation shown on the profile")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}

	role, ok := models.ParseRole(*roleName)
	if !ok || !role.IsStaff() || *username == "" || *email == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}

	account, err := cli.staff.CreateStaff(ctx, services.NewStaffInput{
		Role:        role,
		Username:    *username,
		Email:       *email,
		Name:        *name,
		Program:     *program,
		Branch:      *branch,
		Designation: *designation,
		Password:    pwd,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s account %q (id %d)\n", account.Role, account.Username, account.ID)
	return nil
}

func (cli *commandLine) resetPasswordCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	login := fs.String("login", "", "The account's username or email. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	if *login == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	if err := cli.staff.SetStaffPassword(ctx, *login, pwd); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "password updated for %q\n", *login)
	return nil
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(pwd), nil
}
