package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/favorepeat/internal/config"
	"github.com/kikiluvv/favorepeat/internal/logging"
	"github.com/kikiluvv/favorepeat/internal/meta"
	"github.com/kikiluvv/favorepeat/internal/sections"
	"github.com/kikiluvv/favorepeat/internal/share"
	"github.com/kikiluvv/favorepeat/internal/storage"
)

var (
	cfgFile string
	verbose bool
	yes     bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "favorepeat",
	Short: "favorepeat - bookmark and loop video sections",
	Long:  "Bookmark time intervals of videos and replay them on loop, persisted across sessions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./favorepeat.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rmCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the delete confirmation")

	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(shareCmd)
}

// openStores wires the configured storage backend into a section store and
// catalog.
func openStores(ctx context.Context) (*sections.Store, *sections.Catalog, func(), error) {
	cfg := config.FromContext(ctx)
	logger := log.Logger

	var (
		kv      storage.Store
		cleanup = func() {}
	)
	switch cfg.Storage.Backend {
	case "redis":
		rs, err := storage.NewRedisStore(cfg.Storage.Redis.Addr, cfg.Storage.Redis.KeyPrefix)
		if err != nil {
			return nil, nil, nil, err
		}
		kv = rs
		cleanup = func() { _ = rs.Close() }
	case "file", "":
		fs, err := storage.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		kv = fs
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	catalog := sections.NewCatalog(kv, logger)
	return sections.NewStore(kv, catalog, logger), catalog, cleanup, nil
}

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "List videos with saved sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, catalog, cleanup, err := openStores(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		videos, err := catalog.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			fmt.Println("no videos saved yet")
			return nil
		}
		for _, v := range videos {
			fmt.Printf("%-12s  %s\n", v.ID, v.Title)
		}
		return nil
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections [video id or URL]",
	Short: "List a video's saved sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, cleanup, err := openStores(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		videoID := meta.ExtractVideoID(args[0])
		secs, err := store.List(cmd.Context(), videoID)
		if err != nil {
			return err
		}
		if len(secs) == 0 {
			fmt.Printf("no sections saved for %s\n", videoID)
			return nil
		}
		for _, s := range secs {
			fmt.Printf("%3d  %s - %s  %s\n", s.ID, s.StartTime, s.EndTime, s.Note)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add [video id or URL] [start] [end] [note]",
	Short: "Save a new section",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, cleanup, err := openStores(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		cfg := config.FromContext(cmd.Context())
		videoID := meta.ExtractVideoID(args[0])

		note := ""
		if len(args) == 4 {
			note = args[3]
		}

		resolver := meta.NewResolver(cfg.YouTube.APIKey, log.Logger)
		title := resolver.ResolveTitle(cmd.Context(), videoID)

		sec, err := store.Create(cmd.Context(), videoID, title, sections.Section{
			StartTime: args[1],
			EndTime:   args[2],
			Note:      note,
		})
		if err != nil {
			return err
		}

		log.Info().Str("video", videoID).Int("section", sec.ID).Msg("section saved")
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [video id] [section id]",
	Short: "Delete a saved section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, cleanup, err := openStores(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		videoID := meta.ExtractVideoID(args[0])
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("section id must be a number: %s", args[1])
		}

		if !yes && !confirm("Delete this section?") {
			return nil
		}

		if err := store.Delete(cmd.Context(), videoID, id); err != nil {
			return err
		}
		log.Info().Str("video", videoID).Int("section", id).Msg("section deleted")
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share [video id] [section id]",
	Short: "Copy a section's link to the clipboard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, cleanup, err := openStores(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		videoID := meta.ExtractVideoID(args[0])
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("section id must be a number: %s", args[1])
		}

		sec, ok, err := store.Get(cmd.Context(), videoID, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no section %d for %s", id, videoID)
		}

		link, err := share.CopyLink(videoID, sec)
		if err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	},
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
