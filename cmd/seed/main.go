package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pustakbhandar/internal/config"
	"pustakbhandar/internal/db"
	"pustakbhandar/internal/logger"
	"pustakbhandar/internal/model"
	"pustakbhandar/internal/repository"
	"pustakbhandar/internal/service"
)

// SeedBookData is one catalog entry in a seed file.
type SeedBookData struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
}

func main() {
	source := flag.String("source", "", "seed file path or http(s) URL; the built-in catalog when empty")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{ServiceName: "storefront-seed"})
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(logger.Options{
		ServiceName: "storefront-seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	if cfg.Backend.Mode != config.BackendLocal {
		log.Fatal().Str("mode", cfg.Backend.Mode).Msg("seeding only applies to the local backend")
	}

	gormDB, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	entries := defaultCatalog
	if *source != "" {
		log.Info().Str("source", *source).Msg("loading seed data")
		entries, err = loadSeedData(*source)
		if err != nil {
			log.Fatal().Err(err).Msg("load seed data")
		}
	}

	books, skipped := toBooks(entries, log)
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("skipped invalid books")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	catalog := service.NewCatalogService(repository.NewBookRepository(gormDB))
	created, updated, err := catalog.SeedBooks(ctx, books)
	if err != nil {
		log.Fatal().Err(err).Int("created", created).Int("updated", updated).Msg("seed books")
	}

	log.Info().
		Int("created", created).
		Int("updated", updated).
		Int("total", created+updated).
		Msg("seed completed")
}

// loadSeedData reads seed entries from a file or an http(s) URL.
func loadSeedData(source string) ([]SeedBookData, error) {
	var body []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch seed data: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		if body, err = io.ReadAll(resp.Body); err != nil {
			return nil, fmt.Errorf("read seed data: %w", err)
		}
	} else {
		var err error
		if body, err = os.ReadFile(source); err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}

	var entries []SeedBookData
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return entries, nil
}

// toBooks converts seed entries, skipping those that cannot be sold.
func toBooks(entries []SeedBookData, log zerolog.Logger) ([]model.Book, int) {
	books := make([]model.Book, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		author := strings.TrimSpace(entry.Author)
		if title == "" || author == "" {
			log.Warn().Str("title", entry.Title).Msg("skipping book without title or author")
			skipped++
			continue
		}

		price, err := decimal.NewFromString(entry.Price)
		if err != nil || price.IsNegative() {
			log.Warn().Str("title", title).Str("price", entry.Price).Msg("skipping book with invalid price")
			skipped++
			continue
		}
		if entry.StockQuantity < 0 {
			log.Warn().Str("title", title).Int("stock", entry.StockQuantity).Msg("skipping book with negative stock")
			skipped++
			continue
		}

		books = append(books, model.Book{
			Title:         title,
			Author:        author,
			Genre:         strings.TrimSpace(entry.Genre),
			Description:   entry.Description,
			Price:         price,
			StockQuantity: entry.StockQuantity,
		})
	}
	return books, skipped
}

var defaultCatalog = []SeedBookData{
	{Title: "मुनामदन", Author: "लक्ष्मीप्रसाद देवकोटा", Genre: "कविता", Description: "ल्हासा गएका मदन र घरमा पर्खिरहेकी मुनाको कथा।", Price: "250", StockQuantity: 40},
	{Title: "शिरीषको फूल", Author: "पारिजात", Genre: "उपन्यास", Description: "सुयोगवीर र सकम्बरीको मनोवैज्ञानिक उपन्यास।", Price: "350", StockQuantity: 25},
	{Title: "बसाइँ", Author: "लीलबहादुर क्षत्री", Genre: "उपन्यास", Description: "पूर्वी पहाडबाट मधेस झर्ने परिवारको कथा।", Price: "300", StockQuantity: 18},
	{Title: "सेतो बाघ", Author: "डायमन शमशेर राणा", Genre: "इतिहास", Description: "राणाकालीन दरबारको ऐतिहासिक उपन्यास।", Price: "550", StockQuantity: 12},
	{Title: "पल्पसा क्याफे", Author: "नारायण वाग्ले", Genre: "उपन्यास", Description: "द्वन्द्वकालीन नेपालको प्रेम र पीडा।", Price: "450", StockQuantity: 30},
	{Title: "कर्णाली ब्लुज", Author: "बुद्धिसागर", Genre: "उपन्यास", Description: "बुबा र छोराको सम्बन्धको कथा।", Price: "500", StockQuantity: 0},
	{Title: "जीवन काँडा कि फूल", Author: "झमक घिमिरे", Genre: "निबन्ध", Description: "संघर्षले भरिएको आत्मकथात्मक निबन्ध।", Price: "400", StockQuantity: 15},
	{Title: "दोषी चश्मा", Author: "बिपी कोइराला", Genre: "कथा", Description: "मनोवैज्ञानिक कथाहरूको संग्रह।", Price: "200", StockQuantity: 22},
	{Title: "ब्रह्माण्डको यात्रा", Author: "अज्ञात", Genre: "विज्ञान कथा", Description: "अन्तरिक्ष यात्राको काल्पनिक कथा।", Price: "320", StockQuantity: 8},
	{Title: "भूतको घर", Author: "अज्ञात", Genre: "डरावनी", Description: "पुरानो हवेलीका रहस्यमय रातहरू।", Price: "280", StockQuantity: 10},
	{Title: "प्रेमपत्र", Author: "अज्ञात", Genre: "रोमान्स", Description: "दुई गाउँबीच चलेको चिठीको प्रेम।", Price: "260", StockQuantity: 14},
}
