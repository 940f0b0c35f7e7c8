package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	client *apiClient
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL                      - authenticate and print an API token")
	fmt.Println("  adduser -email EMAIL -name NAME [-role ROLE] - create a user account (default role: admin)")
	fmt.Println("  deactivate -id ID                       - deactivate a user account")
	fmt.Println("  activate -id ID                         - reactivate a user account")
	fmt.Println()
	fmt.Println("The API address and token are read from API_URL and API_TOKEN.")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account's email. The password will be prompted next.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserEmail := addUserCmd.String("email", "", "The new account's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The new account's full name.")
	addUserRole := addUserCmd.String("role", "admin", "The new account's role: parent, tutor or admin.")

	deactivateCmd := flag.NewFlagSet("deactivate", flag.ExitOnError)
	deactivateID := deactivateCmd.String("id", "", "The user's ID.")

	activateCmd := flag.NewFlagSet("activate", flag.ExitOnError)
	activateID := activateCmd.String("id", "", "The user's ID.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, pwd)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, *addUserRole, pwd)
	case "deactivate":
		if err := deactivateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deactivateID == "" {
			deactivateCmd.Usage()
			return errHelp
		}
		return cli.setActive(*deactivateID, false)
	case "activate":
		if err := activateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *activateID == "" {
			activateCmd.Usage()
			return errHelp
		}
		return cli.setActive(*activateID, true)
	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	return string(pwd), err
}
