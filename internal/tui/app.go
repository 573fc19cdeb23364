package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/matheus3301/wppmanager/internal/bus"
	"github.com/matheus3301/wppmanager/internal/reconcile"
	"github.com/matheus3301/wppmanager/internal/session"
	"github.com/matheus3301/wppmanager/internal/tui/client"
	"github.com/matheus3301/wppmanager/internal/tui/keys"
	"github.com/matheus3301/wppmanager/internal/tui/model"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/matheus3301/wppmanager/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageChats   = "chats"
	pageThread  = "thread"
	pageDetails = "details"
	pageHelp    = "help"
	pageConnect = "connect"
)

// Options configures the dashboard.
type Options struct {
	Account         ui.AccountData
	Client          *client.Client
	Bus             *bus.Bus
	Logger          *zap.Logger
	RefreshInterval time.Duration
	// OnLogout clears stored credentials; the app quits afterwards.
	OnLogout func() error
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	layout   *tview.Flex
	pages    *ui.Pages
	vm       *model.ViewModel
	api      *client.Client
	registry *keys.Registry
	flash    *ui.FlashModel
	log      *zap.Logger
	opts     Options

	account     *ui.AccountInfo
	menu        *ui.Menu
	crumbs      *ui.Crumbs
	flashBar    *ui.FlashBar
	prompt      *ui.Prompt
	instanceBar *views.InstanceBar
	list        *views.ConversationList
	thread      *views.MessageThread
	info        *views.ConversationInfo
	help        *views.HelpView
	pairing     *views.PairingView

	components    map[string]ui.Component
	promptVisible bool
	cancelPairing context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 15 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:         tview.NewApplication(),
		theme:       theme,
		pages:       ui.NewPages(),
		vm:          model.NewViewModel(opts.Client, opts.Client, opts.Bus, opts.Logger),
		api:         opts.Client,
		registry:    keys.NewRegistry(),
		flash:       ui.NewFlashModel(),
		log:         opts.Logger,
		opts:        opts,
		account:     ui.NewAccountInfo(theme),
		menu:        ui.NewMenu(theme, 6),
		crumbs:      ui.NewCrumbs(theme),
		flashBar:    ui.NewFlashBar(theme),
		prompt:      ui.NewPrompt(theme),
		instanceBar: views.NewInstanceBar(theme),
		list:        views.NewConversationList(theme),
		thread:      views.NewMessageThread(theme),
		info:        views.NewConversationInfo(theme),
		help:        views.NewHelpView(theme),
		pairing:     views.NewPairingView(theme),
		ctx:         ctx,
		cancel:      cancel,
	}
	a.components = map[string]ui.Component{
		pageChats:   a.list,
		pageThread:  a.thread,
		pageDetails: a.info,
		pageHelp:    a.help,
		pageConnect: a.pairing,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() {
			if a.pages.Depth() > 1 {
				a.back()
				return
			}
			a.Stop()
		},
	})
	a.registry.AddGlobal("help", &keys.Action{
		Rune: '?', Key: tcell.KeyRune,
		Description: "?:help", Visible: true,
		Handler: func() { a.push(pageHelp) },
	})

	a.registry.AddView(pageChats, "sort", &keys.Action{
		Rune: 's', Key: tcell.KeyRune,
		Description: "s:sort", Visible: true,
		Handler: func() {
			mode := a.vm.CycleSort()
			a.flash.Info("Sorted by " + mode.String())
		},
	})
	a.registry.AddView(pageChats, "instance", &keys.Action{
		Key:         tcell.KeyTab,
		Description: "tab:instance", Visible: true,
		Handler: func() {
			if name := a.vm.CycleInstance(); name != "" {
				a.flash.Info("Instance " + name)
			} else {
				a.flash.Info("All instances")
			}
		},
	})
	a.registry.AddView(pageChats, "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:reload", Visible: true,
		Handler: func() { go a.reloadChats() },
	})
	a.registry.AddView(pageChats, "clear", &keys.Action{
		Rune: '0', Key: tcell.KeyRune,
		Handler: func() {
			a.vm.ClearFilter()
			a.flash.Info("Filters cleared")
		},
	})
	for n := 1; n <= 9; n++ {
		a.registry.AddView(pageChats, fmt.Sprintf("jump%d", n), &keys.Action{
			Rune: rune('0' + n), Key: tcell.KeyRune,
			Handler: func() {
				if key := a.list.KeyByIndex(n); key != "" {
					a.openChat(key)
				}
			},
		})
	}

	a.registry.AddView(pageThread, "details", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Description: "d:details", Visible: true,
		Handler: a.showDetails,
	})
	a.registry.AddView(pageThread, "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:reload", Visible: true,
		Handler: func() {
			if chat, ok := a.vm.ActiveChat(); ok {
				a.vm.Open(a.ctx, chat)
			}
		},
	})
}

func (a *App) setupCallbacks() {
	a.list.SetSelectedFunc(func(row, _ int) {
		if key := a.list.KeyByIndex(row); key != "" {
			a.openChat(key)
		}
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptFilter:
			a.vm.SetQuery(text)
		case ui.PromptCommand:
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.vm.SetQuery(text)
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.vm.SetQuery("")
		}
		a.hidePrompt()
	})
	a.prompt.SetCompleter(CompleteCommand)

	a.pages.SetOnChange(func(stack []string) {
		names := make([]string, 0, len(stack))
		for _, p := range stack {
			if c, ok := a.components[p]; ok {
				names = append(names, c.Name())
			}
		}
		a.crumbs.Update(names)
		if c, ok := a.components[a.pages.Current()]; ok {
			a.menu.Update(c.Hints())
		}
	})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.account, 0, 2, false).
		AddItem(a.menu, 0, 2, false).
		AddItem(ui.NewLogo(a.theme, a.opts.Account.Profile), 18, 0, false)

	a.pages.AddPage(pageChats, a.list, true, false)
	a.pages.AddPage(pageThread, a.thread, true, false)
	a.pages.AddPage(pageDetails, a.info, true, false)
	a.pages.AddPage(pageHelp, a.help, true, false)
	a.pages.AddPage(pageConnect, a.pairing, true, false)

	a.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.instanceBar, 1, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(a.layout, true)
	a.pages.Reset(pageChats)
	a.account.Update(&a.opts.Account)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Let the prompt handle all keys while it is open.
		if a.promptVisible {
			return event
		}

		current := a.pages.Current()
		if event.Key() == tcell.KeyEscape {
			a.back()
			return nil
		}
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case ':':
				a.showPrompt(ui.PromptCommand)
				return nil
			case '/':
				if current == pageChats {
					a.showPrompt(ui.PromptFilter)
					return nil
				}
			}
		}

		if a.registry.HandleEvent(current, event) {
			return nil
		}
		return event
	})
}

func (a *App) push(page string) {
	if a.pages.Current() == page {
		return
	}
	c := a.components[page]
	c.Start()
	a.pages.Push(page)
	a.app.SetFocus(c)
}

func (a *App) back() {
	popped := a.pages.Pop()
	if popped == "" {
		return
	}
	a.components[popped].Stop()
	switch popped {
	case pageThread:
		a.vm.CloseThread()
	case pageConnect:
		if a.cancelPairing != nil {
			a.cancelPairing()
			a.cancelPairing = nil
		}
	}
	if c, ok := a.components[a.pages.Current()]; ok {
		a.app.SetFocus(c)
	}
}

func (a *App) showPrompt(mode ui.PromptMode) {
	text := ""
	if mode == ui.PromptFilter {
		text = a.vm.Filter().Query
	}
	a.prompt.Activate(mode, text)
	a.promptVisible = true
	a.layout.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.promptVisible = false
	a.layout.ResizeItem(a.prompt, 0, 0)
	if c, ok := a.components[a.pages.Current()]; ok {
		a.app.SetFocus(c)
	}
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "quit":
		a.Stop()
	case "help":
		a.push(pageHelp)
	case "reload":
		go a.reloadChats()
	case "instance":
		a.vm.SetInstance(cmd.Args)
	case "sort":
		mode, ok := model.ParseSortMode(cmd.Args)
		if !ok {
			a.flash.Warn("Sort modes: recent, unread, name")
			return
		}
		a.vm.SetSort(mode)
	case "chat":
		a.openChatByName(cmd.Args)
	case "connect":
		a.showPairing(cmd.Args)
	case "logout":
		if a.opts.OnLogout != nil {
			if err := a.opts.OnLogout(); err != nil {
				a.flash.Err(err)
				return
			}
		}
		if a.opts.Bus != nil {
			a.opts.Bus.Emit(bus.KindAuthChanged, nil)
		}
		a.Stop()
	default:
		a.flash.Warn("Unknown command: " + cmd.Name)
	}
}

func (a *App) openChatByName(name string) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		a.flash.Warn("Usage: :chat <name>")
		return
	}
	chats := a.vm.Chats()
	for i := range chats {
		c := &chats[i]
		if strings.Contains(strings.ToLower(c.DisplayName()), needle) {
			a.openChat(reconcile.ChatKey(c))
			return
		}
	}
	a.flash.Warn("No conversation matches " + name)
}

// openChat shows the thread of the conversation with the given composite key.
// Selecting another conversation while one is loading supersedes it.
func (a *App) openChat(key string) {
	chat, ok := a.vm.Lookup(key)
	if !ok {
		return
	}
	a.thread.SetChat(key, chat.DisplayName(), chat.Instance)
	a.vm.Open(a.ctx, chat)
	a.thread.Update(a.vm.Thread())
	a.push(pageThread)
}

func (a *App) showDetails() {
	chat, ok := a.vm.ActiveChat()
	if !ok {
		return
	}
	a.info.Update(&chat, time.Now())
	a.push(pageDetails)
}

func (a *App) showPairing(name string) {
	name = strings.TrimSpace(name)
	if err := session.ValidateInstanceName(name); err != nil {
		a.flash.Err(err)
		return
	}
	if a.cancelPairing != nil {
		a.cancelPairing()
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelPairing = cancel

	a.pairing.SetInstance(name)
	a.pairing.ShowMessage("Requesting pairing code...")
	a.push(pageConnect)

	go a.runPairing(ctx, name)
}

// runPairing shows the pairing QR and polls the instance until it connects.
func (a *App) runPairing(ctx context.Context, name string) {
	qr, err := a.api.Pairing(ctx, name)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.log.Warn("pairing request failed", zap.String("instance", name), zap.Error(err))
		a.app.QueueUpdateDraw(func() {
			a.pairing.ShowMessage("Could not get a pairing code: " + err.Error())
		})
		return
	}
	a.app.QueueUpdateDraw(func() { a.pairing.ShowQR(qr) })

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.api.States(ctx, []string{name})[name] != backend.StateOpen {
				continue
			}
			a.flash.Info("Instance " + name + " connected")
			a.reloadChats()
			a.app.QueueUpdateDraw(func() {
				if a.pages.Current() == pageConnect {
					a.back()
				}
			})
			return
		}
	}
}

func (a *App) reloadChats() {
	_ = a.vm.LoadChats(a.ctx)
}

// render redraws everything derived from the view model. Runs on the UI goroutine.
func (a *App) render() {
	filter := a.vm.Filter()
	a.list.Update(views.ListState{
		Chats:  a.vm.Chats(),
		Total:  a.vm.Total(),
		Filter: filter,
		Sort:   a.vm.Sort().String(),
		Now:    time.Now(),
	})
	summary := a.vm.Summary()
	a.instanceBar.Update(a.vm.InstanceNames(), a.vm.Instances(), filter.Instance, summary)

	acct := a.opts.Account
	acct.Summary = summary
	a.account.Update(&acct)

	if a.pages.Contains(pageThread) {
		snap := a.vm.Thread()
		if snap.Ref.IsZero() {
			return
		}
		a.thread.Update(snap)
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	a.vm.Watch(a.ctx)
	go a.reloadChats()
	go a.loop()

	err := a.app.Run()
	a.cancel()
	a.vm.Close()
	return err
}

func (a *App) loop() {
	refresh := time.NewTicker(a.opts.RefreshInterval)
	clock := time.NewTicker(time.Second)
	defer refresh.Stop()
	defer clock.Stop()

	for {
		select {
		case <-a.vm.RefreshCh():
			a.app.QueueUpdateDraw(a.render)
		case msg := <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(&msg) })
		case <-clock.C:
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.GetMessage()) })
		case <-refresh.C:
			go a.reloadChats()
		case <-a.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
