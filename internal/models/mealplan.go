package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealEntry is a single planned meal on a day.
type MealEntry struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Done     bool      `json:"done"`
}

// PlanDay groups the meals planned for one calendar date ("YYYY-MM-DD").
// A plan holds at most one PlanDay per date value.
type PlanDay struct {
	Date  string      `json:"date"`
	Meals []MealEntry `json:"meals"`
}

// MealPlan is a user's schedule of recipes plus a derived grocery list.
// Days and GroceryList are read and written as one document; Version
// backs the optimistic compare-and-swap in the store so two concurrent
// writers cannot silently drop each other's changes.
type MealPlan struct {
	ID          uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID      uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Days        PlanDays         `gorm:"type:jsonb;not null;default:'[]'" json:"days"`
	GroceryList JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"grocery_list"`
	Version     int64            `gorm:"not null;default:0" json:"-"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Day returns the plan day for the given date, or nil.
func (p *MealPlan) Day(date string) *PlanDay {
	for i := range p.Days {
		if p.Days[i].Date == date {
			return &p.Days[i]
		}
	}
	return nil
}

// RecipeIDs returns every recipe referenced anywhere in the plan.
func (p *MealPlan) RecipeIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, day := range p.Days {
		for _, meal := range day.Meals {
			ids = append(ids, meal.RecipeID)
		}
	}
	return ids
}
