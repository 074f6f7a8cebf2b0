// Command client is the portfolio admin CLI. It signs in, shows dashboard
// stats and lets the administrator read and answer contact messages from a
// terminal, and prints bcrypt hashes for ADMIN_PASSWORD_HASH.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atinyakov/baristafolio/internal/client"
	"github.com/atinyakov/baristafolio/internal/client/storage"
	"github.com/atinyakov/baristafolio/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	version   string
	buildDate string
)

const (
	requestTimeout = 15 * time.Second
	// maxPasswordBytes is the longest input bcrypt will hash.
	maxPasswordBytes = 72
)

// repl runs the interactive shell loop for working through the inbox.
func repl(api *client.Client, prompt *storage.Prompter) {
	for {
		line, err := prompt.Ask("baristactl> ")
		if err != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, stats, messages [status], read <id>, reply <id>, resend <id>, exit")
		case "stats":
			if err := printStats(api); err != nil {
				fmt.Println("Error:", err)
			}
		case "messages":
			filter := models.MessageFilter{}
			if len(args) > 1 {
				filter.Status = args[1]
			}
			if err := printMessages(api, filter); err != nil {
				fmt.Println("Error:", err)
			}
		case "read", "reply", "resend":
			if len(args) < 2 {
				fmt.Printf("Usage: %s <id>\n", args[0])
				continue
			}
			upd := models.MessageUpdate{Action: models.ActionMarkAsRead}
			switch args[0] {
			case "reply":
				text, err := prompt.Multiline("Reply")
				if err != nil {
					fmt.Println("Reply cancelled:", err)
					continue
				}
				upd = models.MessageUpdate{Action: models.ActionReply, Reply: text}
			case "resend":
				upd = models.MessageUpdate{Action: models.ActionResendReply}
			}
			if err := updateMessage(api, args[1], upd); err != nil {
				fmt.Println("Error:", err)
			}
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func printStats(api *client.Client) error {
	ctx, cancel := withTimeout()
	defer cancel()
	stats, err := api.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Visits: %d (last %s)\nVideos: %d\nImages: %d\nCertificates: %d\nMessages: %d (%d unread)\n",
		stats.Visits, stats.LastVisit.Local().Format(time.DateTime), stats.Videos, stats.Images,
		stats.Certificates, stats.Messages, stats.UnreadMessages)
	return nil
}

func printMessages(api *client.Client, filter models.MessageFilter) error {
	ctx, cancel := withTimeout()
	defer cancel()
	msgs, err := api.Messages(ctx, filter)
	if err != nil {
		return err
	}
	writeMessages(os.Stdout, msgs)
	return nil
}

func writeMessages(out io.Writer, msgs []models.Message) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tFROM\tRECEIVED\tMESSAGE")
	for _, m := range msgs {
		text := strings.ReplaceAll(m.Message, "\n", " ")
		if r := []rune(text); len(r) > 50 {
			text = string(r[:47]) + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s <%s>\t%s\t%s\n",
			m.ID, m.Status, m.Name, m.Email, m.CreatedAt.Local().Format(time.DateTime), text)
	}
	_ = tw.Flush()
}

func updateMessage(api *client.Client, id string, upd models.MessageUpdate) error {
	ctx, cancel := withTimeout()
	defer cancel()
	msg, err := api.UpdateMessage(ctx, id, upd)
	if err != nil {
		return err
	}
	fmt.Printf("Message %s is now %s", msg.ID, msg.Status)
	if msg.DeliveryStatus != models.DeliveryNone {
		fmt.Printf(", email %s", msg.DeliveryStatus)
	}
	fmt.Println()
	return nil
}

// hashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func login(store *storage.TokenStore, prompt *storage.Prompter, baseURL string) error {
	email, password, err := prompt.Credentials()
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout()
	defer cancel()
	res, err := client.New(baseURL, "").Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := store.Save(&storage.Session{
		BaseURL:   baseURL,
		Token:     res.Token,
		Email:     res.User.Email,
		ExpiresAt: res.ExpiresAt,
	}); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s until %s\n", res.User.Email, res.ExpiresAt.Local().Format(time.DateTime))
	return nil
}

// main parses command-line flags and dispatches to the requested command.
func main() {
	var (
		cmd         string
		baseURL     string
		sessionPath string
		status      string
		showVer     bool
	)

	flag.StringVar(&cmd, "cmd", "", "command: hash | login | logout | stats | messages | shell")
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&sessionPath, "session", storage.DefaultPath(), "path to the saved session")
	flag.StringVar(&status, "status", "", "message status filter for -cmd=messages")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("baristactl\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	store := storage.NewTokenStore(sessionPath)
	prompt := storage.NewPrompter(os.Stdin, os.Stdout)

	// authed builds a client from the saved session.
	authed := func() *client.Client {
		sess, err := store.Load()
		if err != nil {
			log.Fatal(err)
		}
		return client.New(sess.BaseURL, sess.Token)
	}

	var err error
	switch cmd {
	case "hash":
		var password string
		if password, err = prompt.Ask("Password: "); err == nil {
			var hash string
			if hash, err = hashPassword(password); err == nil {
				fmt.Println(hash)
			}
		}
	case "login":
		err = login(store, prompt, baseURL)
	case "logout":
		err = store.Clear()
	case "stats":
		err = printStats(authed())
	case "messages":
		err = printMessages(authed(), models.MessageFilter{Status: status})
	case "shell":
		repl(authed(), prompt)
	default:
		log.Fatalf("unknown command: %s", cmd)
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == 401 {
		log.Fatal("session rejected by the server, run -cmd=login again")
	}
	if err != nil {
		log.Fatal(err)
	}
}
