package main

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
)

type Fixtures struct {
	Config     map[string]string `yaml:"config"`
	Intents    []struct {
		Name     string   `yaml:"name"`
		Position int      `yaml:"position"`
		Phrases  []string `yaml:"phrases"`
	} `yaml:"intents"`
	Synonyms []struct {
		Canonical string   `yaml:"canonical"`
		Variants  []string `yaml:"variants"`
	} `yaml:"synonyms"`
	Categories []struct {
		Name     string `yaml:"name"`
		Position int    `yaml:"position"`
	} `yaml:"categories"`
	Roles []struct {
		Name         string   `yaml:"name"`
		Capabilities []string `yaml:"capabilities"`
	} `yaml:"roles"`
	BusinessHours []struct {
		Weekday int    `yaml:"weekday"`
		Open    string `yaml:"open"`
		Close   string `yaml:"close"`
	} `yaml:"business_hours"`
	Rules []struct {
		Name        string  `yaml:"name"`
		Category    string  `yaml:"category"`
		DiscountPct float64 `yaml:"discount_pct"`
		Position    int     `yaml:"position"`
	} `yaml:"rules"`
	Products []struct {
		SKU          string   `yaml:"sku"`
		Name         string   `yaml:"name"`
		Variant      string   `yaml:"variant"`
		Price        float64  `yaml:"price"`
		QtyAvailable int      `yaml:"qty_available"`
		Categories   []string `yaml:"categories"`
		ImageURL     string   `yaml:"image_url"`
	} `yaml:"products"`
	Slots []struct {
		Date     string `yaml:"date"`
		Time     string `yaml:"time"`
		Capacity int    `yaml:"capacity"`
	} `yaml:"slots"`
}

func ParseFixtures(raw []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// Report counts inserted rows per table.
type Report map[string]int

// Seed writes the fixtures in one transaction. Existing rows, matched by
// their natural key, are left alone; products are upserted by SKU.
func Seed(ctx context.Context, f unitofwork.RepositoryFactory, fx *Fixtures, overwriteConfig bool) (Report, error) {
	uow := f.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	report := Report{}

	configs := uow.BotConfigRepository()
	for k, v := range fx.Config {
		if !overwriteConfig {
			_, found, err := configs.Get(ctx, k)
			if err != nil {
				return nil, err
			}
			if found {
				continue
			}
		}
		if err := configs.Set(ctx, k, v); err != nil {
			return nil, fmt.Errorf("config %s: %w", k, err)
		}
		report["bot_configs"]++
	}

	for _, it := range fx.Intents {
		e := &entity.Intent{Name: it.Name, Phrases: it.Phrases, Position: it.Position}
		if err := insertMissing[entity.Intent](ctx, report, "intents", uow.IntentRepository(), e, specification.Filter("name", it.Name)); err != nil {
			return nil, err
		}
	}
	for _, it := range fx.Synonyms {
		e := &entity.Synonym{Canonical: it.Canonical, Variants: it.Variants}
		if err := insertMissing[entity.Synonym](ctx, report, "synonyms", uow.SynonymRepository(), e, specification.Filter("canonical", it.Canonical)); err != nil {
			return nil, err
		}
	}
	for _, it := range fx.Categories {
		e := &entity.Category{Name: it.Name, Position: it.Position}
		if err := insertMissing[entity.Category](ctx, report, "categories", uow.CategoryRepository(), e, specification.Filter("name", it.Name)); err != nil {
			return nil, err
		}
	}
	for _, it := range fx.Roles {
		e := &entity.Role{Name: it.Name, Capabilities: it.Capabilities}
		if err := insertMissing[entity.Role](ctx, report, "roles", uow.RoleRepository(), e, specification.Filter("name", it.Name)); err != nil {
			return nil, err
		}
	}
	for _, it := range fx.BusinessHours {
		e := &entity.BusinessHour{Weekday: it.Weekday, Open: it.Open, Close: it.Close}
		if err := insertMissing[entity.BusinessHour](ctx, report, "business_hours", uow.BusinessHourRepository(), e, specification.Filter("weekday", it.Weekday)); err != nil {
			return nil, err
		}
	}
	for _, it := range fx.Rules {
		e := &entity.PricingRule{Name: it.Name, Category: it.Category, DiscountPct: it.DiscountPct, Position: it.Position, Active: true}
		if err := insertMissing[entity.PricingRule](ctx, report, "pricing_rules", uow.PricingRuleRepository(), e, specification.Filter("name", it.Name)); err != nil {
			return nil, err
		}
	}
	slots := uow.AgendaSlotRepository()
	for _, it := range fx.Slots {
		existing, err := slots.FindSlot(ctx, it.Date, it.Time)
		if err != nil {
			return nil, fmt.Errorf("agenda_slots lookup: %w", err)
		}
		if existing != nil {
			continue
		}
		if err := slots.Create(ctx, &entity.AgendaSlot{Date: it.Date, Time: it.Time, Capacity: it.Capacity}); err != nil {
			return nil, fmt.Errorf("agenda_slots insert: %w", err)
		}
		report["agenda_slots"]++
	}

	products := uow.ProductRepository()
	for _, it := range fx.Products {
		p := &entity.Product{
			SKU:          it.SKU,
			Name:         it.Name,
			Variant:      it.Variant,
			Price:        it.Price,
			QtyAvailable: it.QtyAvailable,
			Categories:   it.Categories,
			ImageURL:     it.ImageURL,
			Active:       true,
		}
		if err := products.UpsertBySKU(ctx, p); err != nil {
			return nil, fmt.Errorf("product %s: %w", it.SKU, err)
		}
		report["products"]++
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return report, nil
}

func insertMissing[T any](ctx context.Context, report Report, table string, repo contract.CrudRepository[T], e *T, match ...specification.Specification) error {
	existing, err := repo.FindOne(ctx, match...)
	if err != nil {
		return fmt.Errorf("%s lookup: %w", table, err)
	}
	if existing != nil {
		return nil
	}
	if err := repo.Create(ctx, e); err != nil {
		return fmt.Errorf("%s insert: %w", table, err)
	}
	report[table]++
	return nil
}
