package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/gyurix/soitrontask/entity"
	"github.com/gyurix/soitrontask/failure"
	"github.com/gyurix/soitrontask/queue"
	"github.com/gyurix/soitrontask/repository"
)

var (
	commandSeparator = regexp.MustCompile(` *\(`)

	errCommandNotFound = errors.New("command not found")
)

var helpLines = []string{
	"Available commands:",
	"- Add (id, guid, name): Adds a new user",
	"- DeleteAll: Deletes all the users",
	"- Help: Shows this help menu",
	"- PrintAll: Prints all the users",
}

// Progress counts the commands a consumer has taken from the queue
type Progress struct {
	Processed atomic.Int64
	Failed    atomic.Int64
}

type command struct {
	name    string
	args    string
	hasArgs bool
}

// parseCommand splits `Name (args)` on the first parenthesis and drops one trailing ")"
func parseCommand(line string) command {
	parts := commandSeparator.Split(strings.TrimSpace(line), 2)
	cmd := command{name: parts[0]}
	if len(parts) == 2 {
		cmd.args = strings.TrimSuffix(parts[1], ")")
		cmd.hasArgs = true
	}
	return cmd
}

func (c command) String() string {
	if !c.hasArgs {
		return c.name
	}
	return c.name + " " + c.args
}

// Consumer drains the command queue and applies each command to the user store
type Consumer struct {
	*Log
	queue    *queue.CommandQueue
	store    repository.Repository[entity.User]
	running  atomic.Bool
	progress Progress
}

// NewConsumer creates a consumer; it runs until Stop is called
func NewConsumer(name string, q *queue.CommandQueue, store repository.Repository[entity.User], logger *slog.Logger) *Consumer {
	c := &Consumer{
		Log:   NewLog(name, logger),
		queue: q,
		store: store,
	}
	c.running.Store(true)
	return c
}

// Run executes queued commands until Stop is called or ctx is done.
// An empty queue is polled again immediately; the consumer never sleeps.
func (c *Consumer) Run(ctx context.Context) {
	c.Info("Started consumer")
	for c.running.Load() && ctx.Err() == nil {
		line, ok := c.queue.Dequeue()
		if !ok {
			runtime.Gosched()
			continue
		}
		c.execute(ctx, line)
	}
}

// Stop makes Run return after the command it is executing
func (c *Consumer) Stop() {
	c.running.Store(false)
}

// Running reports whether Stop has not been called yet
func (c *Consumer) Running() bool {
	return c.running.Load()
}

// Progress returns the consumer's counters
func (c *Consumer) Progress() *Progress {
	return &c.progress
}

// execute runs one command; no error or panic escapes it
func (c *Consumer) execute(ctx context.Context, line string) {
	cmd := parseCommand(line)
	c.progress.Processed.Add(1)

	defer func() {
		if v := recover(); v != nil {
			c.fail(cmd, failure.Recovered(v))
		}
	}()

	err := c.dispatch(ctx, cmd)
	switch {
	case errors.Is(err, errCommandNotFound):
		c.progress.Failed.Add(1)
		c.Error(fmt.Sprintf("Command %s was not found, enter \"Help\" to list the available commands", cmd.name))
	case err != nil:
		c.fail(cmd, err)
	}
}

func (c *Consumer) fail(cmd command, err error) {
	c.progress.Failed.Add(1)
	c.Failure(fmt.Sprintf("Failed to execute command \"%s\", enter \"Help\" to list the available commands", cmd), err)
}

func (c *Consumer) dispatch(ctx context.Context, cmd command) error {
	switch strings.ToLower(cmd.name) {
	case "add":
		user, err := entity.ParseUser(cmd.args)
		if err != nil {
			return err
		}
		if err := c.store.Add(ctx, user); err != nil {
			return err
		}
		c.Info("Added user " + user.String())

	case "deleteall":
		if err := c.store.DeleteAll(ctx); err != nil {
			return err
		}
		c.Info("Deleted all users")

	case "help":
		for _, line := range helpLines {
			c.Info(line)
		}

	case "printall":
		c.Info("Users:")
		users, err := c.store.GetAll(ctx)
		if err != nil {
			return err
		}
		for _, user := range users {
			c.Info(user)
		}

	default:
		return errCommandNotFound
	}
	return nil
}
