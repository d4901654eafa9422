package client

import "testing"

func TestParseCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		line    string
		want    Command
		wantNil bool
		wantErr bool
	}{
		{name: "empty line", line: "", wantNil: true},
		{name: "whitespace only", line: "   ", wantNil: true},
		{name: "help", line: "help", want: Command{Name: CmdHelp}},
		{name: "quit", line: "quit", want: Command{Name: CmdQuit}},
		{name: "exit alias", line: "exit", want: Command{Name: CmdQuit}},
		{name: "login", line: "login user1 1", want: Command{Name: CmdLogin, Username: "user1", Password: "1"}},
		{name: "login missing password", line: "login user1", wantErr: true},
		{name: "logout", line: "logout", want: Command{Name: CmdLogout}},
		{name: "logout with args", line: "logout now", wantErr: true},
		{name: "show list", line: "show_list", want: Command{Name: CmdShowList}},
		{name: "show day uppercases", line: "show_day wed", want: Command{Name: CmdShowDay, Day: "WED"}},
		{name: "show day missing arg", line: "show_day", wantErr: true},
		{name: "show my res", line: "show_my_res", want: Command{Name: CmdShowMyRes}},
		{name: "make res", line: "make_res WED 14", want: Command{Name: CmdMakeRes, Day: "WED", Hour: 14}},
		{name: "make res lowercase day", line: "make_res sat 9", want: Command{Name: CmdMakeRes, Day: "SAT", Hour: 9}},
		{name: "make res bad hour", line: "make_res WED noon", wantErr: true},
		{name: "make res missing hour", line: "make_res WED", wantErr: true},
		{name: "cancel res", line: "cancel_res fri", want: Command{Name: CmdCancelRes, Day: "FRI"}},
		{name: "cancel res extra args", line: "cancel_res FRI 20", wantErr: true},
		{name: "uppercase command", line: "HELP", want: Command{Name: CmdHelp}},
		{name: "extra whitespace", line: "  login   user2   2  ", want: Command{Name: CmdLogin, Username: "user2", Password: "2"}},
		{name: "unknown command", line: "reboot", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := ParseCommand(tc.line)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %+v", cmd)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand(%q) failed: %v", tc.line, err)
			}
			if tc.wantNil {
				if cmd != nil {
					t.Fatalf("expected nil command, got %+v", cmd)
				}
				return
			}
			if cmd == nil {
				t.Fatal("expected a command, got nil")
			}
			if *cmd != tc.want {
				t.Fatalf("ParseCommand(%q) = %+v, want %+v", tc.line, *cmd, tc.want)
			}
		})
	}
}
