package scraper

import (
	"fmt"

	"car-scraper/config"
	"car-scraper/scraper/autoru"
	"car-scraper/scraper/avito"
	"car-scraper/scraper/drom"
	"car-scraper/utils"
)

// Sites builds the enabled sites in the order given by cfg.Sites, applying
// any page overrides from the config file.
func Sites(cfg *config.Config) ([]Site, error) {
	var sites []Site
	for _, name := range cfg.Sites {
		switch name {
		case "drom":
			sites = append(sites, drom.New(cfg.Pages(name, nil)))
		case "autoru":
			sites = append(sites, autoru.New(cfg.Pages(name, nil)))
		case "avito":
			sites = append(sites, avito.New(cfg.Pages(name, nil)))
		default:
			return nil, fmt.Errorf("unknown site %q", name)
		}
	}
	return sites, nil
}

// Adapters wraps every site from Sites with fetcher and the request settings
// from cfg.
func Adapters(cfg *config.Config, fetcher Fetcher, logger *utils.Logger) ([]*Adapter, error) {
	sites, err := Sites(cfg)
	if err != nil {
		return nil, err
	}

	opts := AdapterOptions{
		IndexTimeout:  cfg.RequestTimeout,
		DetailTimeout: cfg.DetailTimeout,
		PageDelay:     cfg.PageDelay,
		MaxEntries:    cfg.MaxEntries,
	}

	adapters := make([]*Adapter, 0, len(sites))
	for _, s := range sites {
		adapters = append(adapters, NewAdapter(s, fetcher, opts, logger))
	}
	return adapters, nil
}
