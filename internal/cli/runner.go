package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Kokonaut/todo-app-demo/internal/api"
	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
	"github.com/Kokonaut/todo-app-demo/internal/session"
)

// Deps are the collaborators every subcommand shares.
type Deps struct {
	API     *api.Client
	Session session.Session
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, deps Deps) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]
	ctx := context.Background()

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "login":
		if len(a) != 2 {
			fail("usage: todo login <email> <password>")
			return 2
		}
		return doLogin(ctx, deps, a[0], a[1])

	case "signup":
		if len(a) < 2 || len(a) > 3 {
			fail("usage: todo signup <email> <password> [name]")
			return 2
		}
		name := ""
		if len(a) == 3 {
			name = a[2]
		}
		return doSignup(ctx, deps, a[0], a[1], name)

	case "confirm":
		if len(a) != 2 {
			fail("usage: todo confirm <email> <code>")
			return 2
		}
		if err := deps.Session.ConfirmSignup(ctx, a[0], a[1]); err != nil {
			fail("confirm: " + err.Error())
			return 1
		}
		fmt.Println("confirmed, you can log in now")
		return 0

	case "logout":
		if err := deps.Session.Logout(); err != nil {
			fail("logout: " + err.Error())
			return 1
		}
		fmt.Println("signed out")
		return 0

	case "whoami":
		user, ok := deps.Session.CurrentUser()
		if !ok {
			fail("not signed in")
			return 1
		}
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		return 0

	case "ls":
		return doList(ctx, deps)

	case "add":
		if len(a) == 0 {
			fail("usage: todo add <title...>")
			return 2
		}
		return doAdd(ctx, deps, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			fail("usage: todo done <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			fail("done: not a number: " + a[0])
			return 2
		}
		return doToggle(ctx, deps, n)

	case "rm":
		if len(a) != 1 {
			fail("usage: todo rm <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			fail("rm: not a number: " + a[0])
			return 2
		}
		return doRemove(ctx, deps, n)
	}

	fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`todo - a tiny client for the todo API

Usage:
  todo                    Open the interactive list
  todo <subcommand> [args]

Subcommands:
  login <email> <password>          Sign in
  signup <email> <password> [name]  Create an account
  confirm <email> <code>            Confirm a pending signup
  logout                            Sign out
  whoami                            Show the signed-in user
  ls                                List items
  add <title...>                    Add an item
  done <index>                      Toggle completed for item at 1-based index
  rm <index>                        Delete item at 1-based index

Environment:
  TODO_API_URL       API base URL (default http://localhost:8080)
  TODO_AUTH          local | hosted (default local)
  TODO_IDENTITY_URL  identity service URL (hosted auth only)
`)
}

// -------------- subcommand impls ----------------

func doLogin(ctx context.Context, deps Deps, email, password string) int {
	if err := deps.Session.Login(ctx, email, password); err != nil {
		fail("login: " + err.Error())
		return 1
	}
	fmt.Println("signed in as " + email)
	return 0
}

func doSignup(ctx context.Context, deps Deps, email, password, name string) int {
	confirmed, err := deps.Session.Signup(ctx, email, password, name)
	if err != nil {
		if errors.Is(err, session.ErrUserExists) {
			fail("signup: user already exists")
			return 1
		}
		fail("signup: " + err.Error())
		return 1
	}
	if confirmed {
		fmt.Println("account created, you can log in now")
	} else {
		fmt.Println("account created, check your email for a confirmation code")
	}
	return 0
}

func doList(ctx context.Context, deps Deps) int {
	todos, err := deps.API.List(ctx)
	if err != nil {
		fail("ls: " + err.Error())
		return 1
	}
	if len(todos) == 0 {
		fmt.Println("nothing to do")
		return 0
	}

	for i, t := range todos {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		fmt.Printf("%3d %s %s\n", i+1, box, t.Title)
	}
	return 0
}

func doAdd(ctx context.Context, deps Deps, title string) int {
	todo, err := deps.API.Create(ctx, title)
	if err != nil {
		fail("add: " + err.Error())
		return 1
	}
	fmt.Println("added: " + todo.Title)
	return 0
}

func doToggle(ctx context.Context, deps Deps, index int) int {
	todo, ok := atIndex(ctx, deps, index)
	if !ok {
		return 1
	}

	completed := !todo.Completed
	updated, err := deps.API.Update(ctx, todo.ID, nil, &completed)
	if err != nil {
		fail("done: " + err.Error())
		return 1
	}

	state := "pending"
	if updated.Completed {
		state = "done"
	}
	fmt.Printf("%s: %s\n", state, updated.Title)
	return 0
}

func doRemove(ctx context.Context, deps Deps, index int) int {
	todo, ok := atIndex(ctx, deps, index)
	if !ok {
		return 1
	}

	if err := deps.API.Delete(ctx, todo.ID); err != nil {
		fail("rm: " + err.Error())
		return 1
	}
	fmt.Println("removed: " + todo.Title)
	return 0
}

// atIndex resolves a 1-based list index against the current server order.
func atIndex(ctx context.Context, deps Deps, index int) (*domain.Todo, bool) {
	todos, err := deps.API.List(ctx)
	if err != nil {
		fail(err.Error())
		return nil, false
	}
	if index < 1 || index > len(todos) {
		fail(fmt.Sprintf("no item at index %d (have %d)", index, len(todos)))
		return nil, false
	}
	return todos[index-1], true
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}
