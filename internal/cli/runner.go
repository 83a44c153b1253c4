package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/todo-service/internal/client"
	"github.com/idilsaglam/todo-service/internal/model"
	"github.com/idilsaglam/todo-service/internal/store/jsonstore"
	"github.com/idilsaglam/todo-service/internal/tui"
	"github.com/idilsaglam/todo-service/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool   // list grouped by pending/done
	Server string // base URL of the todo service

	Stdout io.Writer
	Stderr io.Writer
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

type runner struct {
	opt Options
	c   *client.Client
	ctx context.Context
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp(opt.Stdout)
		return 0
	}

	c, err := client.New(opt.Server)
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 2
	}
	r := &runner{opt: opt, c: c, ctx: context.Background()}

	switch cmd {
	case "ls":
		return r.list()

	case "show":
		id, ok := r.idArg("show", a)
		if !ok {
			return 2
		}
		return r.show(id)

	case "add":
		return r.add(a)

	case "edit":
		if len(a) < 2 {
			ui.Fail(opt.Stderr, "usage: todo edit <id> <title...>")
			return 2
		}
		id, ok := r.idArg("edit", a[:1])
		if !ok {
			return 2
		}
		return r.edit(id, strings.Join(a[1:], " "))

	case "done":
		id, ok := r.idArg("done", a)
		if !ok {
			return 2
		}
		return r.toggle(id)

	case "rm":
		id, ok := r.idArg("rm", a)
		if !ok {
			return 2
		}
		return r.remove(id)

	case "tui":
		if err := tui.Run(r.ctx, r.c); err != nil {
			ui.Fail(opt.Stderr, "tui: "+err.Error())
			return 1
		}
		return 0

	case "export":
		if len(a) > 1 {
			ui.Fail(opt.Stderr, "usage: todo export [file]")
			return 2
		}
		return r.export(firstOr(a, ""))

	case "import":
		if len(a) > 1 {
			ui.Fail(opt.Stderr, "usage: todo import [file]")
			return 2
		}
		return r.importFile(firstOr(a, ""))

	case "health":
		return r.health()
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

// PrintHelp writes usage to w.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - client for the todo service

Usage:
  todo [-server URL] [-group] [-theme NAME] <subcommand> [args]

Subcommands:
  ls                       List items
  show <id>                Show one item
  add [-d desc] <title...> Add a new item (title can be multiple words)
  edit <id> <title...>     Change the title of an item
  done <id>                Toggle done for an item
  rm <id>                  Remove an item
  tui                      Interactive list
  export [file]            Save all items to a JSON file (default %s)
  import [file]            Create every item from a JSON file
  health                   Check that the server is up

Examples:
  todo add -d "2 litres" Buy milk
  todo ls
  todo done 2
  todo rm 3
`, jsonstore.DefaultFileName)
}

func firstOr(a []string, def string) string {
	if len(a) == 0 {
		return def
	}
	return a[0]
}

func (r *runner) idArg(cmd string, a []string) (int64, bool) {
	if len(a) != 1 {
		ui.Fail(r.opt.Stderr, fmt.Sprintf("usage: todo %s <id>", cmd))
		return 0, false
	}
	id, err := strconv.ParseInt(a[0], 10, 64)
	if err != nil {
		ui.Fail(r.opt.Stderr, cmd+": not a number: "+a[0])
		return 0, false
	}
	return id, true
}

// fail reports a server error. Missing items get a hint.
func (r *runner) fail(what string, id int64, err error) int {
	if client.IsNotFound(err) {
		ui.Fail(r.opt.Stderr, fmt.Sprintf("%s: no item #%d", what, id))
		ui.Hint(r.opt.Stderr, "Hint: run `todo ls` to see valid ids")
		return 1
	}
	ui.Fail(r.opt.Stderr, what+": "+err.Error())
	return 1
}

// -------------- subcommand impls ----------------

func (r *runner) list() int {
	items, err := r.c.List(r.ctx)
	if err != nil {
		return r.fail("ls", 0, err)
	}
	t := ui.Current()
	d, p := model.Stats(items)

	var lines []string
	lines = append(lines, ui.Header(items))
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if r.opt.Group {
		lines = append(lines, ui.GroupLines(items)...)
	} else {
		lines = append(lines, ui.FlatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(r.opt.Stdout, lines)
	return 0
}

func (r *runner) show(id int64) int {
	it, err := r.c.Get(r.ctx, id)
	if err != nil {
		return r.fail("show", id, err)
	}
	ui.Panel(r.opt.Stdout, ui.Detail(it))
	return 0
}

func (r *runner) add(args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(r.opt.Stderr)
	desc := fs.String("d", "", "description")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		ui.Fail(r.opt.Stderr, "usage: todo add [-d desc] <title...>")
		return 2
	}
	it, err := r.c.Create(r.ctx, model.TodoItem{Title: title, Description: *desc})
	if err != nil {
		return r.fail("add", 0, err)
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("added #%d", it.ID))
	return 0
}

func (r *runner) edit(id int64, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail(r.opt.Stderr, "edit: empty title")
		return 2
	}
	it, err := r.c.Get(r.ctx, id)
	if err != nil {
		return r.fail("edit", id, err)
	}
	it.Title = title
	if _, err := r.c.Update(r.ctx, id, it); err != nil {
		return r.fail("edit", id, err)
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("updated #%d", id))
	return 0
}

func (r *runner) toggle(id int64) int {
	it, err := r.c.Get(r.ctx, id)
	if err != nil {
		return r.fail("done", id, err)
	}
	it.Completed = !it.Completed
	if _, err := r.c.Update(r.ctx, id, it); err != nil {
		return r.fail("done", id, err)
	}
	state := "pending"
	if it.Completed {
		state = "done"
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("#%d is %s", id, state))
	return 0
}

func (r *runner) remove(id int64) int {
	if err := r.c.Delete(r.ctx, id); err != nil {
		return r.fail("rm", id, err)
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("removed #%d", id))
	return 0
}

func (r *runner) export(path string) int {
	items, err := r.c.List(r.ctx)
	if err != nil {
		return r.fail("export", 0, err)
	}
	written, err := jsonstore.Save(path, items)
	if err != nil {
		ui.Fail(r.opt.Stderr, "export: "+err.Error())
		return 1
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("exported %d items to %s", len(items), written))
	return 0
}

// importFile creates every item in the file. The server assigns new ids.
func (r *runner) importFile(path string) int {
	items, err := jsonstore.Load(path)
	if err != nil {
		ui.Fail(r.opt.Stderr, "import: "+err.Error())
		return 1
	}
	for i, it := range items {
		if _, err := r.c.Create(r.ctx, it); err != nil {
			ui.Fail(r.opt.Stderr, fmt.Sprintf("import: item %d of %d: %v", i+1, len(items), err))
			return 1
		}
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("imported %d items", len(items)))
	return 0
}

func (r *runner) health() int {
	msg, err := r.c.Health(r.ctx)
	if err != nil {
		ui.Fail(r.opt.Stderr, "health: "+err.Error())
		return 1
	}
	ui.OK(r.opt.Stdout, msg)
	return 0
}
