package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"netflix-explorer/dataset"
	"netflix-explorer/fetcher"
	"netflix-explorer/notifier"
	"netflix-explorer/query"
	"netflix-explorer/storage"
)

// DatasetRefreshJob re-fetches the titles CSV, reloads it into a table,
// snapshots it to the database and mails out a catalog digest.
type DatasetRefreshJob struct {
	fetcher       fetcher.FetcherInterface
	storage       *storage.SQLiteStorage
	datasetURL    string
	datasetPath   string
	emailNotifier *notifier.EmailNotifier
	sendEmails    bool
}

// NewDatasetRefreshJob creates a new dataset refresh job
func NewDatasetRefreshJob(f fetcher.FetcherInterface, store *storage.SQLiteStorage, datasetURL, datasetPath string) *DatasetRefreshJob {
	// Get email configuration from environment variables
	emailConfig := notifier.GetEmailConfigFromEnv()
	var emailNotifier *notifier.EmailNotifier
	sendEmails := false

	// Only create email notifier if SMTP host and recipient are configured
	if emailConfig.SMTPHost != "" && emailConfig.RecipientEmail != "" {
		var err error
		emailNotifier, err = notifier.NewEmailNotifier(emailConfig)
		if err != nil {
			log.Printf("Failed to create email notifier: %v", err)
		} else {
			sendEmails = true
			log.Printf("Digest emails will be sent to: %s", emailConfig.RecipientEmail)
		}
	} else {
		log.Println("Digest emails disabled: missing configuration")
	}

	return &DatasetRefreshJob{
		fetcher:       f,
		storage:       store,
		datasetURL:    datasetURL,
		datasetPath:   datasetPath,
		emailNotifier: emailNotifier,
		sendEmails:    sendEmails,
	}
}

// Name returns the name of the job
func (j *DatasetRefreshJob) Name() string {
	return "dataset_refresh"
}

// Run executes the job
func (j *DatasetRefreshJob) Run(ctx context.Context) error {
	if j.datasetURL != "" {
		if err := j.download(ctx); err != nil {
			// A failed download keeps the previous dataset file usable.
			log.Printf("Download failed, reloading existing dataset: %v", err)
		}
	}

	table, err := dataset.Load(j.datasetPath)
	if err != nil {
		return fmt.Errorf("refresh failed: %v", err)
	}

	if err := j.storage.ReplaceAll(table); err != nil {
		return fmt.Errorf("failed to snapshot catalog: %v", err)
	}

	overview := query.ComputeOverview(table)
	log.Printf("Catalog refreshed: %d titles (%d movies, %d TV shows)",
		overview.Total, overview.Movies, overview.TVShows)

	if j.sendEmails {
		digest := notifier.CatalogDigest{
			Source:       j.sourceName(),
			Overview:     overview,
			TopGenres:    query.TopN(query.CountBy(table, query.ByGenre), 15),
			TopCountries: query.TopN(query.CountBy(table, query.ByCountry), 10),
		}
		if err := j.emailNotifier.NotifyCatalogDigest(digest); err != nil {
			log.Printf("Error sending digest email: %v", err)
		}
	}

	return nil
}

// download fetches the CSV and replaces the local dataset file only after
// the payload parses as a valid titles table.
func (j *DatasetRefreshJob) download(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	payload, err := j.fetcher.Fetch(ctx, j.datasetURL)
	if err != nil {
		return err
	}

	if _, err := dataset.Parse(bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("fetched payload is not a valid dataset: %v", err)
	}

	tmpPath := j.datasetPath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(j.datasetPath), 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %v", err)
	}
	if err := os.WriteFile(tmpPath, payload, 0644); err != nil {
		return fmt.Errorf("failed to write dataset file: %v", err)
	}
	if err := os.Rename(tmpPath, j.datasetPath); err != nil {
		return fmt.Errorf("failed to replace dataset file: %v", err)
	}

	log.Printf("Dataset downloaded to %s", j.datasetPath)
	return nil
}

func (j *DatasetRefreshJob) sourceName() string {
	if j.datasetURL != "" {
		return j.datasetURL
	}
	return j.datasetPath
}
