package main

import (
	"context"
	"embed"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/MJE43/hilo-casino-desktop/internal/bindings"
	"github.com/MJE43/hilo-casino-desktop/internal/config"
)

//go:embed all:frontend/dist
var assets embed.FS

const (
	windowTitle = "Higher or Lower - Casino Guess"
	repoURL     = "https://github.com/MJE43/hilo-casino-desktop"
)

// Table felt green, used for the window background and title bars.
var feltColour = options.RGBA{R: 11, G: 107, B: 58, A: 255}

var (
	appCtx   context.Context
	appCtxMu sync.RWMutex
)

func buildWindowsOptions() *windows.Options {
	return &windows.Options{
		Theme: windows.SystemDefault,
		CustomTheme: &windows.ThemeSettings{
			DarkModeTitleBar:  windows.RGB(11, 107, 58),
			DarkModeTitleText: windows.RGB(212, 175, 55),
			DarkModeBorder:    windows.RGB(21, 59, 43),

			LightModeTitleBar:  windows.RGB(11, 107, 58),
			LightModeTitleText: windows.RGB(255, 255, 255),
			LightModeBorder:    windows.RGB(21, 59, 43),
		},
		WebviewIsTransparent: false,
		WindowIsTranslucent:  false,
		DisablePinchZoom:     true,
		IsZoomControlEnabled: false,
		ZoomFactor:           1.0,
		WindowClassName:      "HiLoCasinoWindow",
	}
}

func buildMacOptions() *mac.Options {
	return &mac.Options{
		TitleBar: mac.TitleBarDefault(),
		About: &mac.AboutInfo{
			Title:   "Higher or Lower",
			Message: "Guess whether the next card is higher or lower.\n\nBuilt with Wails",
		},
	}
}

func buildLinuxOptions() *linux.Options {
	return &linux.Options{
		WindowIsTranslucent: false,
		WebviewGpuPolicy:    linux.WebviewGpuPolicyOnDemand,
		ProgramName:         "hilo-casino",
	}
}

func main() {
	log.Printf("Starting Higher or Lower (Go %s)...", runtime.Version())

	cfg := config.Load()
	log.Printf("Data directory: %s", cfg.DataDir)
	if cfg.Seed != "" {
		log.Printf("Seeded deals enabled (%s)", config.EnvSeed)
	}

	app := bindings.New(cfg)

	startup := func(ctx context.Context) {
		app.Startup(ctx)
		setAppContext(ctx)
	}

	beforeClose := func(ctx context.Context) (prevent bool) {
		app.Shutdown(ctx)
		setAppContext(nil)
		log.Println("Application is closing")
		return false
	}

	if err := wails.Run(&options.App{
		Title:            windowTitle,
		Width:            420,
		Height:           560,
		DisableResize:    true,
		WindowStartState: options.Normal,
		BackgroundColour: &feltColour,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:     startup,
		OnBeforeClose: beforeClose,
		OnShutdown: func(ctx context.Context) {
			log.Println("Application shutdown complete")
		},

		Menu: buildAppMenu(cfg.DataDir),
		Bind: []interface{}{app},

		LogLevel:           logger.INFO,
		LogLevelProduction: logger.ERROR,

		EnableDefaultContextMenu: false,

		ErrorFormatter: func(err error) any {
			if err == nil {
				return nil
			}
			return err.Error()
		},

		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId: "5b0e7d2a-3c41-4f8e-9a61-hilo-casino",
			OnSecondInstanceLaunch: func(data options.SecondInstanceData) {
				log.Printf("Second instance launch prevented. Args: %v", data.Args)
			},
		},

		Windows: buildWindowsOptions(),
		Mac:     buildMacOptions(),
		Linux:   buildLinuxOptions(),
	}); err != nil {
		log.Printf("Error running Wails app: %v", err)
		fmt.Printf("Error: %v\n", err)
		panic(err)
	}

	log.Println("Application exited normally")
}

// buildAppMenu wires the menu bar. Game actions are forwarded to the
// frontend as events so it can ask for confirmation first.
func buildAppMenu(dataDir string) *menu.Menu {
	rootMenu := menu.NewMenu()

	if runtime.GOOS == "darwin" {
		if appMenu := menu.AppMenu(); appMenu != nil {
			rootMenu.Append(appMenu)
		}
	}

	gameMenu := menu.NewMenu()
	gameMenu.AddText("New Game", keys.CmdOrCtrl("n"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.EventsEmit(ctx, "menu:new-game")
		})
	})
	gameMenu.AddText("Leaderboard", keys.CmdOrCtrl("l"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.EventsEmit(ctx, "menu:leaderboard")
		})
	})
	gameMenu.AddText("History", keys.CmdOrCtrl("h"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.EventsEmit(ctx, "menu:history")
		})
	})
	rootMenu.Append(menu.SubMenu("Game", gameMenu))

	fileMenu := menu.NewMenu()
	fileMenu.AddText("Open Data Directory", keys.CmdOrCtrl("o"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			openPathInExplorer(ctx, dataDir)
		})
	})
	fileMenu.AddSeparator()
	fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.Quit(ctx)
		})
	})
	rootMenu.Append(menu.SubMenu("File", fileMenu))

	helpMenu := menu.NewMenu()
	helpMenu.AddText("Project Repository", nil, func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.BrowserOpenURL(ctx, repoURL)
		})
	})
	rootMenu.Append(menu.SubMenu("Help", helpMenu))

	return rootMenu
}

func openPathInExplorer(ctx context.Context, path string) {
	if path == "" {
		return
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		log.Printf("resolve path %s failed: %v", path, err)
		abs = path
	}

	wruntime.BrowserOpenURL(ctx, fileURI(abs))
}

func fileURI(path string) string {
	clean := filepath.ToSlash(path)
	if runtime.GOOS == "windows" && len(clean) > 0 && clean[0] != '/' {
		clean = "/" + clean
	}

	u := url.URL{Scheme: "file", Path: clean}
	return u.String()
}

func setAppContext(ctx context.Context) {
	appCtxMu.Lock()
	defer appCtxMu.Unlock()
	appCtx = ctx
}

func withAppContext(action func(context.Context)) {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()
	if ctx == nil {
		log.Println("application context not initialised; ignoring menu action")
		return
	}
	action(ctx)
}
