package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"dive-server/config"
	game "dive-server/src"
	"dive-server/src/client"
	"dive-server/src/rpc"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	grpcAddr   string
	transport  string
	name       string
	phone      string
	consent    bool
	character  string
	queuePath  string
	configPath string
	debugLog   string
	mute       bool
	live       bool
	fps        int
)

var _ client.Transport = (*rpc.Client)(nil)

func defaultQueuePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dive-queue.json"
	}
	return filepath.Join(dir, "dive", "queue.json")
}

var rootCmd = &cobra.Command{
	Use:   "diver",
	Short: "Terminal freediving game with an online leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		// tcell owns the terminal, so logs go to a file or nowhere.
		log.SetOutput(io.Discard)
		if debugLog != "" {
			f, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open debug log: %w", err)
			}
			defer f.Close()
			log.SetOutput(f)
		}

		tuning, err := config.Load(configPath)
		if err != nil {
			return err
		}

		var tr client.Transport
		switch transport {
		case "http":
			tr = client.NewHTTP(serverURL)
		case "grpc":
			rc, err := rpc.Dial(grpcAddr)
			if err != nil {
				return err
			}
			defer rc.Close()
			tr = rc
		default:
			return fmt.Errorf("unknown transport %q (want http or grpc)", transport)
		}

		queue, err := client.NewQueue(client.FileStorage{Path: queuePath}, tr)
		if err != nil {
			return fmt.Errorf("load score queue: %w", err)
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()

		sound := NewSound(!mute)
		defer sound.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := NewApp(screen, tuning, tr, queue, sound)
		app.fps = fps
		if live && transport == "http" {
			if feed, err := client.DialFeed(ctx, serverURL); err != nil {
				log.Printf("Live leaderboard unavailable: %v", err)
			} else {
				defer feed.Close()
				go app.follow(feed)
			}
		}
		app.Prefill(game.Registration{Name: name, Phone: phone, Consent: consent}, character)
		app.Run(ctx)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the score server.")
	rootCmd.PersistentFlags().StringVar(&grpcAddr, "grpc", "localhost:9090", "Address of the gRPC score service.")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "http", "How scores are sent: http or grpc.")
	rootCmd.PersistentFlags().StringVar(&name, "name", "", "Player name.")
	rootCmd.PersistentFlags().StringVar(&phone, "phone", "", "Contact phone number.")
	rootCmd.PersistentFlags().BoolVar(&consent, "consent", false, "Agree to be contacted about prizes.")
	rootCmd.PersistentFlags().StringVar(&character, "character", "", "Start straight away as shortfin or longfin.")
	rootCmd.PersistentFlags().StringVar(&queuePath, "queue", defaultQueuePath(), "File holding scores waiting to be sent.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML file overriding game tuning.")
	rootCmd.PersistentFlags().StringVar(&debugLog, "debug", "", "Write logs to this file.")
	rootCmd.PersistentFlags().BoolVar(&mute, "mute", false, "Disable sound.")
	rootCmd.PersistentFlags().BoolVar(&live, "live", true, "Follow the live leaderboard over websocket.")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", 60, "Frames per second.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
