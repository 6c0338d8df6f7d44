package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/notify"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Chat is the part of the chat service the REPL drives
type Chat interface {
	CreateRoom(ctx context.Context, title string) (domain.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	SelectRoom(ctx context.Context, id string) error
	Send(ctx context.Context, in domain.MessageInput) (domain.Message, error)
	Rooms() []domain.Room
	ActiveRoom() (domain.Room, bool)
	SetSearch(term string)
	DisplayedMessages() []domain.Message
	ClearSearch()
}

const help = `Commands:
  /new [title]     create a room and switch to it
  /rooms           list rooms
  /use <n|id>      switch to a room
  /delete <n|id>   delete a room
  /show            print the active room
  /search [term]   filter the active room, no term clears
  /quit            exit
Anything else is sent to the active room.`

type repl struct {
	chat Chat
	feed *notify.Feed
	out  io.Writer
}

func newREPL(chat Chat, feed *notify.Feed, out io.Writer) *repl {
	return &repl{chat: chat, feed: feed, out: out}
}

// Run reads commands until EOF, /quit or ctx is done
func (r *repl) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, help)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		quit, err := r.exec(ctx, strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintln(r.out, color.Red.Sprint(err.Error()))
		}
		r.flushNotifications()
		if quit {
			return nil
		}
	}
}

func (r *repl) exec(ctx context.Context, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		_, err := r.chat.Send(ctx, domain.MessageInput{Text: line})
		return false, err
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.out, help)
	case "/new":
		if arg == "" {
			arg = "New Chat"
		}
		_, err := r.chat.CreateRoom(ctx, arg)
		return false, err
	case "/rooms":
		r.printRooms()
	case "/use":
		id, err := r.resolve(arg)
		if err != nil {
			return false, err
		}
		return false, r.chat.SelectRoom(ctx, id)
	case "/delete":
		id, err := r.resolve(arg)
		if err != nil {
			return false, err
		}
		return false, r.chat.DeleteRoom(ctx, id)
	case "/show":
		r.printActive()
	case "/search":
		if arg == "" {
			r.chat.ClearSearch()
		} else {
			r.chat.SetSearch(arg)
		}
		r.printActive()
	default:
		return false, fmt.Errorf("unknown command %s, try /help", cmd)
	}
	return false, nil
}

// resolve accepts a 1-based position from /rooms or a room id
func (r *repl) resolve(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("room number or id required")
	}
	rooms := r.chat.Rooms()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(rooms) {
			return "", fmt.Errorf("no room #%d", n)
		}
		return rooms[n-1].ID, nil
	}
	return arg, nil
}

func (r *repl) printRooms() {
	active, _ := r.chat.ActiveRoom()

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"#", "Title", "Messages", "ID"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for i, room := range r.chat.Rooms() {
		marker := strconv.Itoa(i + 1)
		if room.ID == active.ID {
			marker += "*"
		}
		table.Append([]string{marker, room.Title, strconv.Itoa(len(room.Messages)), room.ID})
	}
	table.Render()
}

func (r *repl) printActive() {
	room, ok := r.chat.ActiveRoom()
	if !ok {
		fmt.Fprintln(r.out, "No active room. Type a message to start one.")
		return
	}

	fmt.Fprintln(r.out, color.Bold.Sprint(room.Title))
	for _, msg := range r.chat.DisplayedMessages() {
		fmt.Fprintln(r.out, formatMessage(msg))
	}
}

func formatMessage(msg domain.Message) string {
	text := msg.Text
	if msg.Image != "" {
		text = strings.TrimSpace(text + " [image]")
	}
	stamp := msg.Timestamp.Local().Format("15:04")

	switch msg.Sender {
	case domain.SenderUser:
		return fmt.Sprintf("%s %s %s", stamp, color.Cyan.Sprint("you:"), text)
	case domain.SenderTyping:
		return fmt.Sprintf("%s %s", stamp, color.Gray.Sprint(text))
	default:
		return fmt.Sprintf("%s %s %s", stamp, color.Green.Sprint("ai:"), text)
	}
}

func (r *repl) flushNotifications() {
	if r.feed == nil {
		return
	}
	for _, n := range r.feed.Drain() {
		fmt.Fprintln(r.out, levelStyle(n.Level).Sprint(n.Message))
	}
}

func levelStyle(level notify.Level) color.Color {
	switch level {
	case notify.LevelSuccess:
		return color.Green
	case notify.LevelError:
		return color.Red
	default:
		return color.Yellow
	}
}
