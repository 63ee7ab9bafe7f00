package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"linkradar/internal/config"
	"linkradar/internal/datastore"
	"linkradar/internal/logger"
	"linkradar/internal/models"
	"linkradar/internal/scanner"

	"github.com/rs/zerolog"
)

func main() {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanService := scanner.NewScanner(&gCfg.ScanConfig, zLogger)
	run, err := scanService.Start(ctx, flags.SeedURL)
	if err != nil {
		zLogger.Fatal().Err(err).Str("seed", flags.SeedURL).Msg("Could not start scan")
	}

	var historyDB *datastore.HistoryDB
	var dbScanID int64
	if gCfg.StorageConfig.Enabled {
		historyDB, err = datastore.NewHistoryDB(gCfg.StorageConfig.SQLiteDBPath, zLogger)
		if err != nil {
			zLogger.Error().Err(err).Msg("Could not open scan history database, history will not be recorded")
			historyDB = nil
		} else {
			defer historyDB.Close()
			dbScanID, err = historyDB.RecordScanStart(run.SessionID, run.SeedURL, time.Now())
			if err != nil {
				zLogger.Error().Err(err).Msg("Could not record scan start, history will not be recorded")
				historyDB = nil
			}
		}
	}

	// First signal drains the run gracefully, a second one aborts.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, stopping scan gracefully...")
		run.Stop()
		sig = <-sigChan
		zLogger.Warn().Str("signal", sig.String()).Msg("Second interrupt, aborting")
		cancel()
	}()

	reportProgress(run, zLogger)

	results, summary := run.Wait()

	if historyDB != nil {
		if err := historyDB.RecordScanCompletion(dbScanID, summary, results); err != nil {
			zLogger.Error().Err(err).Msg("Could not record scan completion")
		}
	}

	if err := printResults(flags, results, summary); err != nil {
		zLogger.Fatal().Err(err).Msg("Could not write results")
	}

	if summary.BrokenCount > 0 || summary.ErrorCount > 0 {
		os.Exit(2)
	}
}

// reportProgress logs a progress line every few seconds until the run ends.
func reportProgress(run *scanner.ScanRun, zLogger zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-run.Done():
				return
			case <-ticker.C:
				progress := run.Progress()
				zLogger.Info().
					Str("current_url", progress.CurrentURL).
					Int("scanned", progress.URLsScanned).
					Int("known", progress.TotalURLsKnown).
					Int("broken", progress.BrokenCount).
					Msg("Scan progress")
			}
		}
	}()
}

func printResults(flags AppFlags, results []models.ScanResult, summary models.ScanSummary) error {
	filtered := results
	if flags.BrokenOnly {
		filtered = make([]models.ScanResult, 0, len(results))
		for _, result := range results {
			if result.Status != models.StatusOK {
				filtered = append(filtered, result)
			}
		}
	}

	if flags.OutputFormat == "json" {
		output := struct {
			Summary models.ScanSummary  `json:"summary"`
			Results []models.ScanResult `json:"results"`
		}{Summary: summary, Results: filtered}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "STATUS\tCODE\tDEPTH\tURL\tFOUND ON")
	for _, result := range filtered {
		code := "-"
		if result.StatusCode != 0 {
			code = fmt.Sprintf("%d", result.StatusCode)
		}
		foundOn := "-"
		if len(result.FoundOn) > 0 {
			foundOn = result.FoundOn[0]
			if len(result.FoundOn) > 1 {
				foundOn = fmt.Sprintf("%s (+%d more)", foundOn, len(result.FoundOn)-1)
			}
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\t%s\n", result.Status, code, result.Depth, result.URL, foundOn)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d URLs scanned in %s (%s): %d ok, %d broken, %d errors\n",
		summary.TotalURLs, summary.Duration.Round(time.Millisecond), summary.Reason,
		summary.OKCount, summary.BrokenCount, summary.ErrorCount)
	return nil
}
