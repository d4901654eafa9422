package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/example/court-reservation/internal/client"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:60000", "reservation server address")
	flag.Parse()

	api := client.New(*addr)
	session := &client.SessionState{}

	fmt.Println(client.Info(fmt.Sprintf("tennis court reservation console, server %s", *addr)))
	fmt.Println(client.Info("type help for the command list"))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		cmd, err := client.ParseCommand(scanner.Text())
		if err != nil {
			fmt.Println(client.Error(err.Error()))
			continue
		}
		if cmd == nil {
			continue
		}
		if cmd.Name == client.CmdQuit {
			fmt.Println(client.Info("goodbye"))
			return
		}

		run(api, session, cmd)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, client.Error("reading input: "+err.Error()))
		os.Exit(1)
	}
}

func run(api *client.Client, session *client.SessionState, cmd *client.Command) {
	ctx := context.Background()

	switch cmd.Name {
	case client.CmdHelp:
		fmt.Println(client.HelpText())

	case client.CmdLogin:
		result, err := api.Login(ctx, cmd.Username, cmd.Password)
		if err != nil {
			fmt.Println(client.Error(err.Error()))
			return
		}
		session.Set(result.Username, result.Token)
		fmt.Println(client.Success("logged in as " + result.Username))

	case client.CmdLogout:
		if !requireLogin(session) {
			return
		}
		if err := api.Logout(ctx, session.Token()); err != nil {
			fmt.Println(client.Error(err.Error()))
			return
		}
		session.Clear()
		fmt.Println(client.Success("logged out"))

	case client.CmdShowList:
		if !requireLogin(session) {
			return
		}
		days, err := api.WeekSchedule(ctx, session.Token())
		if err != nil {
			fmt.Println(client.Error(err.Error()))
			return
		}
		fmt.Print(client.RenderWeek(days, session.Username()))

	case client.CmdShowDay:
		if !requireLogin(session) {
			return
		}
		day, err := api.DayScheduleFor(ctx, session.Token(), cmd.Day)
		if err != nil {
			fmt.Println(client.Error(err.Error()))
			return
		}
		fmt.Print(client.RenderDay(day, session.Username()))

	case client.CmdShowMyRes:
		if !requireLogin(session) {
			return
		}
		reservations, err := api.MyReservations(ctx, session.Token())
		if err != nil {
			fmt.Println(client.Error(err.Error()))
			return
		}
		fmt.Print(client.RenderReservations(reservations))

	case client.CmdMakeRes:
		if !requireLogin(session) {
			return
		}
		reservation, err := api.Reserve(ctx, session.Token(), cmd.Day, cmd.Hour)
		if err != nil {
			fmt.Println(client.Error(err.Error()))
			return
		}
		fmt.Println(client.Success(fmt.Sprintf("reserved %s %s", reservation.Day, reservation.TimeSlot)))

	case client.CmdCancelRes:
		if !requireLogin(session) {
			return
		}
		reservation, err := api.Cancel(ctx, session.Token(), cmd.Day)
		if err != nil {
			fmt.Println(client.Error(err.Error()))
			return
		}
		fmt.Println(client.Success(fmt.Sprintf("cancelled %s %s", reservation.Day, reservation.TimeSlot)))
	}
}

func requireLogin(session *client.SessionState) bool {
	if session.LoggedIn() {
		return true
	}
	fmt.Println(client.Error("please login first"))
	return false
}
