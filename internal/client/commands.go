package client

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandName enumerates the console commands the REPL understands.
type CommandName string

const (
	CmdHelp      CommandName = "help"
	CmdQuit      CommandName = "quit"
	CmdLogin     CommandName = "login"
	CmdLogout    CommandName = "logout"
	CmdShowList  CommandName = "show_list"
	CmdShowDay   CommandName = "show_day"
	CmdShowMyRes CommandName = "show_my_res"
	CmdMakeRes   CommandName = "make_res"
	CmdCancelRes CommandName = "cancel_res"
)

// Command is a parsed console line.
type Command struct {
	Name     CommandName
	Username string
	Password string
	Day      string
	Hour     int
}

// ParseCommand turns one console line into a Command. An empty line yields
// (nil, nil); anything unrecognized or malformed returns a usage error.
func ParseCommand(line string) (*Command, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return nil, nil
	}

	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch CommandName(name) {
	case CmdHelp, CmdLogout, CmdShowList, CmdShowMyRes:
		if len(args) != 0 {
			return nil, fmt.Errorf("%s takes no arguments", name)
		}
		return &Command{Name: CommandName(name)}, nil

	case CmdQuit:
		return &Command{Name: CmdQuit}, nil

	case CmdLogin:
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: login USERNAME PASSWORD")
		}
		return &Command{Name: CmdLogin, Username: args[0], Password: args[1]}, nil

	case CmdShowDay:
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: show_day DAY (e.g. show_day WED)")
		}
		return &Command{Name: CmdShowDay, Day: strings.ToUpper(args[0])}, nil

	case CmdMakeRes:
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: make_res DAY HOUR (e.g. make_res WED 14)")
		}
		hour, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("hour must be an integer between 9 and 22")
		}
		return &Command{Name: CmdMakeRes, Day: strings.ToUpper(args[0]), Hour: hour}, nil

	case CmdCancelRes:
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: cancel_res DAY (e.g. cancel_res WED)")
		}
		return &Command{Name: CmdCancelRes, Day: strings.ToUpper(args[0])}, nil
	}

	if name == "exit" {
		return &Command{Name: CmdQuit}, nil
	}
	return nil, fmt.Errorf("unknown command %q, type help for the command list", name)
}

// HelpText lists every command with its usage.
func HelpText() string {
	return strings.TrimSpace(`
Available commands:
  login USERNAME PASSWORD   authenticate and store the session token
  logout                    revoke the current session token
  show_list                 display the full weekly schedule
  show_day DAY              display one day (MON..SUN)
  show_my_res               list your reservations
  make_res DAY HOUR         reserve a slot, e.g. make_res WED 14
  cancel_res DAY            cancel your reservation on a day
  help                      show this message
  quit / exit               leave the console
`)
}
