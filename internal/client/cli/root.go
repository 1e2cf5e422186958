package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	mode := a.Mode()
	if mode == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", mode)
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to the story client (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	for {
		fmt.Printf("story %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: list, list-located, refresh, show <id>, add, fav <id>, unfav <id>, favs, drain, login, register, logout, clear-local, exit")
		case "list":
			a.list(ctx, false, false)
		case "list-located":
			a.list(ctx, true, false)
		case "refresh":
			a.list(ctx, false, true)
		case "show":
			if len(args) == 0 {
				fmt.Println("Usage: show <id>")
				continue
			}
			a.show(ctx, args[0])
		case "add":
			a.add(ctx)
		case "fav":
			if len(args) == 0 {
				fmt.Println("Usage: fav <id>")
				continue
			}
			a.favorite(ctx, args[0])
		case "unfav":
			if len(args) == 0 {
				fmt.Println("Usage: unfav <id>")
				continue
			}
			a.unfavorite(ctx, args[0])
		case "favs":
			a.listFavorites(ctx)
		case "drain":
			a.drain(ctx)
		case "login":
			a.login(ctx)
		case "register":
			a.register(ctx)
		case "logout":
			a.logout(ctx)
		case "clear-local":
			a.clearLocal(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
