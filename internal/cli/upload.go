package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/claude/repcoach/internal/upload"
)

var (
	uploadDryRun    bool
	uploadStateDir  string
	uploadHAEHost   string
	uploadHAEPort   int
	uploadSince     string
	uploadChunkDays int
)

var uploadCmd = &cobra.Command{
	Use:   "upload [dir]",
	Short: "Send Health Auto Export and Alpha Progression exports to the server",
	Long: `Uploads every .json (Health Auto Export) and .csv (Alpha Progression)
file under dir that has not been sent before. With --hae-host, workouts are
also pulled from the Health Auto Export TCP server on the phone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && uploadHAEHost == "" {
			return fmt.Errorf("nothing to upload: give a directory or --hae-host")
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

		stateDir := uploadStateDir
		if stateDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			stateDir = filepath.Join(home, ".repcoach-upload")
		}
		state, err := upload.OpenStateDB(stateDir)
		if err != nil {
			return fmt.Errorf("failed to open state database: %w", err)
		}
		defer state.Close()

		dir := ""
		if len(args) == 1 {
			dir = args[0]
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("directory not found: %s", dir)
			}
		}

		uploader := upload.New(upload.NewClient(serverURL, apiKey), state, dir, uploadDryRun, log)
		var stats *upload.Stats
		if dir != "" {
			if stats, err = uploader.Run(cmd.Context()); err != nil {
				printUploadStats(cmd.OutOrStdout(), stats)
				return fmt.Errorf("upload failed: %w", err)
			}
		}

		if uploadHAEHost != "" {
			fallback := time.Now().AddDate(0, 0, -30)
			if uploadSince != "" {
				if fallback, err = time.ParseInLocation("2006-01-02", uploadSince, time.Local); err != nil {
					return fmt.Errorf("invalid --since, expected YYYY-MM-DD: %w", err)
				}
			}
			start := fallback
			if uploadSince == "" {
				start = uploader.TCPStart(fallback)
			}
			hae := upload.NewHAEClient(uploadHAEHost, uploadHAEPort)
			if stats, err = uploader.RunTCP(cmd.Context(), hae, start, time.Now(), uploadChunkDays); err != nil {
				printUploadStats(cmd.OutOrStdout(), stats)
				return fmt.Errorf("TCP sync failed: %w", err)
			}
		}

		printUploadStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func printUploadStats(w io.Writer, stats *upload.Stats) {
	if stats == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, boldGreen("Upload Summary"))
	fmt.Fprintf(w, "  Files total:      %d\n", stats.FilesTotal)
	fmt.Fprintf(w, "  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Fprintf(w, "  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Fprintf(w, "  Files errored:    %d\n", stats.FilesErrored)
	if stats.TCPChunks > 0 {
		fmt.Fprintf(w, "  TCP chunks:       %d (%d bytes)\n", stats.TCPChunks, stats.TCPBytesSent)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Events inserted:  %d\n", stats.Ingest.EventsInserted)
	fmt.Fprintf(w, "  Events skipped:   %d (duplicates)\n", stats.Ingest.EventsSkipped)
	fmt.Fprintf(w, "  Sets inserted:    %d\n", stats.Ingest.SetsInserted)
	if len(stats.Ingest.UnmappedTypes) > 0 {
		fmt.Fprintf(w, "\n  %s\n", yellow("Activities without a fatigue mapping:"))
		for _, t := range stats.Ingest.UnmappedTypes {
			fmt.Fprintf(w, "    - %s\n", t)
		}
	}
	fmt.Fprintln(w)
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "validate files but don't send them")
	uploadCmd.Flags().StringVar(&uploadStateDir, "state-dir", "", "directory of the upload state database (default ~/.repcoach-upload)")
	uploadCmd.Flags().StringVar(&uploadHAEHost, "hae-host", "", "Health Auto Export TCP server host")
	uploadCmd.Flags().IntVar(&uploadHAEPort, "hae-port", 9000, "Health Auto Export TCP server port")
	uploadCmd.Flags().StringVar(&uploadSince, "since", "", "pull workouts from this date (default: last sync or 30 days)")
	uploadCmd.Flags().IntVar(&uploadChunkDays, "chunk-days", 7, "days per TCP request")

	rootCmd.AddCommand(uploadCmd)
}
