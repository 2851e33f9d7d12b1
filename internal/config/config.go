package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr       string
	CORSOrigin string
	StaticDir  string

	// Feed engine knobs.
	SeedCount       int
	PageSize        int
	GrowthMargin    int
	CommentCap      int
	CommentMaxLen   int
	CommentTail     int
	DefaultPhotoURL string

	// Search - empty URL disables Meilisearch and the in-memory scan
	// fallback serves all queries.
	MeiliURL       string
	MeiliMasterKey string
}

// Load reads configuration from the environment, then overlays the YAML
// file named by LIGHTBOX_CONFIG_FILE (if set) for the fields it contains.
func Load() Config {
	cfg := Config{
		Addr:            getenv("API_ADDR", ":8787"),
		CORSOrigin:      getenv("LIGHTBOX_CORS_ORIGIN", "*"),
		StaticDir:       getenv("LIGHTBOX_STATIC_DIR", ""),
		SeedCount:       getenvInt("LIGHTBOX_SEED_COUNT", 9),
		PageSize:        getenvInt("LIGHTBOX_PAGE_SIZE", 6),
		GrowthMargin:    getenvInt("LIGHTBOX_GROWTH_MARGIN", 2),
		CommentCap:      getenvInt("LIGHTBOX_COMMENT_CAP", 20),
		CommentMaxLen:   getenvInt("LIGHTBOX_COMMENT_MAX_LEN", 280),
		CommentTail:     getenvInt("LIGHTBOX_COMMENT_TAIL", 6),
		DefaultPhotoURL: getenv("LIGHTBOX_DEFAULT_PHOTO_URL", "/static/img/placeholder.jpg"),
		MeiliURL:        getenv("MEILI_URL", ""),
		MeiliMasterKey:  getenv("MEILI_MASTER_KEY", ""),
	}

	if path := os.Getenv("LIGHTBOX_CONFIG_FILE"); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			log.Printf("config: ignoring overlay %s: %v", path, err)
		}
	}
	return cfg
}

// fileConfig uses pointer fields so the overlay only touches keys that are
// actually present in the file.
type fileConfig struct {
	Addr            *string `yaml:"addr"`
	CORSOrigin      *string `yaml:"corsOrigin"`
	StaticDir       *string `yaml:"staticDir"`
	SeedCount       *int    `yaml:"seedCount"`
	PageSize        *int    `yaml:"pageSize"`
	GrowthMargin    *int    `yaml:"growthMargin"`
	CommentCap      *int    `yaml:"commentCap"`
	CommentMaxLen   *int    `yaml:"commentMaxLen"`
	CommentTail     *int    `yaml:"commentTail"`
	DefaultPhotoURL *string `yaml:"defaultPhotoUrl"`
	MeiliURL        *string `yaml:"meiliUrl"`
	MeiliMasterKey  *string `yaml:"meiliMasterKey"`
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	setString(&cfg.Addr, fc.Addr)
	setString(&cfg.CORSOrigin, fc.CORSOrigin)
	setString(&cfg.StaticDir, fc.StaticDir)
	setInt(&cfg.SeedCount, fc.SeedCount)
	setInt(&cfg.PageSize, fc.PageSize)
	setInt(&cfg.GrowthMargin, fc.GrowthMargin)
	setInt(&cfg.CommentCap, fc.CommentCap)
	setInt(&cfg.CommentMaxLen, fc.CommentMaxLen)
	setInt(&cfg.CommentTail, fc.CommentTail)
	setString(&cfg.DefaultPhotoURL, fc.DefaultPhotoURL)
	setString(&cfg.MeiliURL, fc.MeiliURL)
	setString(&cfg.MeiliMasterKey, fc.MeiliMasterKey)
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
