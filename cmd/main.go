package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"netflix-explorer/dataset"
	"netflix-explorer/fetcher"
	"netflix-explorer/query"
	"netflix-explorer/scheduler"
	"netflix-explorer/storage"
)

func main() {
	// Initialize storage
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = "./data"
	}

	// Initialize logger with timestamp
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Netflix Explorer...")

	datasetPath := os.Getenv("DATASET_PATH")
	if datasetPath == "" {
		datasetPath = "./netflix_titles.csv"
	}
	datasetURL := os.Getenv("DATASET_URL")

	runMode := os.Getenv("RUN_MODE")
	if runMode == "" || runMode == "report" {
		log.Println("Running in report mode")

		table, err := dataset.Load(datasetPath)
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}

		displayCatalogReport(table, filtersFromEnv())
		log.Println("Application exiting")
		return
	}

	// Initialize storage for the refresh modes
	sqliteStorage := storage.NewSQLiteStorage(dataPath)
	if err := sqliteStorage.Initialize(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer sqliteStorage.Close()

	datasetFetcher := fetcher.NewFetcher()
	refreshJob := scheduler.NewDatasetRefreshJob(datasetFetcher, sqliteStorage, datasetURL, datasetPath)

	switch runMode {
	case "scheduler":
		log.Println("Starting in scheduler mode")

		// Initialize scheduler
		sched := scheduler.NewScheduler()

		// Refresh the catalog once a day
		if err := sched.AddDailyJob(refreshJob); err != nil {
			log.Fatalf("Failed to schedule dataset refresh job: %v", err)
		}

		// Start the scheduler
		sched.Start()
		log.Println("Scheduler started. Catalog will be refreshed daily at 6:00 AM")

		// Run the job once at startup if specified
		if os.Getenv("RUN_AT_STARTUP") == "true" {
			log.Println("Running initial catalog refresh at startup")
			if err := sched.RunJobNow(refreshJob.Name()); err != nil {
				log.Printf("Error running initial job: %v", err)
			}
		}

		// Display database stats
		displayDatabaseStats(sqliteStorage)

		// Set up signal handling for graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		log.Println("Application running. Press Ctrl+C to exit")

		// Wait for termination signal
		sig := <-quit
		log.Printf("Received signal %s, shutting down...", sig)

		// Gracefully stop the scheduler
		sched.Stop()

	case "once":
		log.Println("Running in single execution mode")

		// Run the refresh once with a timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := refreshJob.Run(ctx); err != nil {
			log.Fatalf("Error running job: %v", err)
		}

		// Display database stats
		displayDatabaseStats(sqliteStorage)

	default:
		log.Fatalf("Unknown RUN_MODE: %s (expected report, once or scheduler)", runMode)
	}

	log.Println("Application exiting")
}

// filtersFromEnv builds the filter set for report mode from environment
// variables; unset variables leave the attribute unrestricted.
func filtersFromEnv() query.FilterSet {
	var filters query.FilterSet

	if types := os.Getenv("FILTER_TYPES"); types != "" {
		filters.Types = dataset.SplitList(types)
	}
	if countries := os.Getenv("FILTER_COUNTRIES"); countries != "" {
		filters.Countries = dataset.SplitList(countries)
	}
	if genres := os.Getenv("FILTER_GENRES"); genres != "" {
		filters.Genres = dataset.SplitList(genres)
	}
	if regions := os.Getenv("FILTER_REGIONS"); regions != "" {
		filters.Regions = dataset.SplitList(regions)
	}
	if ratings := os.Getenv("FILTER_RATINGS"); ratings != "" {
		filters.Ratings = dataset.SplitList(ratings)
	}

	// Bad or partial range values parse to 0 and the range is ignored.
	filters.AddedYears = rangeFromEnv("FILTER_ADDED_MIN", "FILTER_ADDED_MAX")
	filters.ReleaseYears = rangeFromEnv("FILTER_RELEASE_MIN", "FILTER_RELEASE_MAX")

	return filters
}

func rangeFromEnv(minKey, maxKey string) query.YearRange {
	min, _ := strconv.Atoi(os.Getenv(minKey))
	max, _ := strconv.Atoi(os.Getenv(maxKey))
	return query.YearRange{Min: min, Max: max}
}

// displayCatalogReport runs the collect -> filter -> aggregate -> render
// cycle once and logs the summary views.
func displayCatalogReport(table dataset.Table, filters query.FilterSet) {
	filtered := query.Filter(table, filters)

	overview := query.ComputeOverview(filtered)
	log.Println("Catalog Overview")
	log.Printf("Total titles: %d", overview.Total)
	log.Printf("Movies: %d", overview.Movies)
	log.Printf("TV Shows: %d", overview.TVShows)

	log.Println("Titles added per year:")
	for _, yc := range query.TitlesPerYear(filtered) {
		log.Printf("- %d: %d", yc.Year, yc.Count)
	}

	log.Println("Top 15 genres:")
	for _, b := range query.TopN(query.CountBy(filtered, query.ByGenre), 15) {
		log.Printf("- %s: %d", b.Key, b.Count)
	}

	log.Println("Top 10 producing countries:")
	for _, b := range query.TopN(query.CountBy(filtered, query.ByCountry), 10) {
		log.Printf("- %s: %d", b.Key, b.Count)
	}

	log.Println("Rating distribution:")
	for _, b := range query.CountBy(filtered, query.ByRating) {
		log.Printf("- %s: %d", b.Key, b.Count)
	}
}

// displayDatabaseStats shows database statistics
func displayDatabaseStats(db *storage.SQLiteStorage) {
	log.Println("Database Statistics")

	// Get database stats
	stats, err := db.GetStats()
	if err != nil {
		log.Printf("Error getting database stats: %v", err)
		return
	}

	log.Printf("Total titles: %d", stats["total"])
	log.Printf("Movies: %d", stats["movies"])
	log.Printf("TV Shows: %d", stats["tv_shows"])

	// Show recent titles
	allTitles, err := db.GetAllTitles()
	if err != nil {
		log.Printf("Error getting titles: %v", err)
		return
	}

	limit := 5
	if len(allTitles) < limit {
		limit = len(allTitles)
	}

	log.Printf("Recent Titles (last %d):", limit)
	for i := 0; i < limit; i++ {
		title := allTitles[i]
		year := ""
		if title.ReleaseYear != 0 {
			year = fmt.Sprintf(" (%d)", title.ReleaseYear)
		}
		log.Printf("- %s%s [%s] - %s", title.Name, year, title.Type, title.Rating)
	}
}
