package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"quicknotes/internal/editor"
	"quicknotes/pkg/client"

	"golang.org/x/term"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "quicknotes server URL")
	email := flag.String("email", "", "account email")
	flag.Parse()

	if *email == "" {
		log.Fatal("usage: notes -email you@example.com [-server URL]")
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}

	ctx := context.Background()

	api := client.New(*server)
	if err := api.Login(ctx, *email, string(passwordBytes)); err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	coord := editor.New(api)
	if err := coord.Load(ctx); err != nil {
		log.Fatalf("Failed to load notes: %v", err)
	}

	fmt.Println("Commands: list | add <text> | edit <id> | rm <id> | quit")
	printNotes(coord)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch cmd {
		case "", "list":
			printNotes(coord)

		case "add":
			coord.SetComposer(arg)
			if err := coord.SubmitComposer(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			printNotes(coord)

		case "edit":
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				fmt.Println("edit needs a note id")
				continue
			}
			if err := editNote(ctx, coord, scanner, id); err != nil {
				fmt.Println("error:", err)
				continue
			}
			printNotes(coord)

		case "rm":
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				fmt.Println("rm needs a note id")
				continue
			}
			if err := coord.Delete(ctx, id); err != nil {
				fmt.Println("error:", err)
				continue
			}
			printNotes(coord)

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command:", cmd)
		}
	}
}

func editNote(ctx context.Context, coord *editor.Coordinator, scanner *bufio.Scanner, id int64) error {
	if err := coord.BeginEdit(ctx, id); err != nil {
		return err
	}

	fmt.Printf("editing %d: %s\n", id, coord.Draft())
	fmt.Print("new content (empty deletes): ")
	if !scanner.Scan() {
		return coord.ClickOutside(ctx)
	}

	coord.SetDraft(scanner.Text())
	return coord.Commit(ctx)
}

func printNotes(coord *editor.Coordinator) {
	notes := coord.Notes()
	if len(notes) == 0 {
		fmt.Println("no notes yet")
		return
	}

	for _, n := range notes {
		marker := ""
		if n.IsEdited {
			marker = " (edited)"
		}
		fmt.Printf("%4d  %s%s  [%s]\n", n.ID, n.Content, marker, n.CreatedAt.Format("2006-01-02 15:04"))
	}
}
