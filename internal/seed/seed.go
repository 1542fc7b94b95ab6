// Package seed inserts the default plan catalog so a fresh install is
// usable out of the box.
package seed

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	plandomain "github.com/trackwise/billing/internal/plan/domain"
	"github.com/trackwise/billing/pkg/db"
	"gorm.io/gorm"
)

type planSeed struct {
	Name         string
	Description  string
	Price        string
	Currency     string
	BillingCycle plandomain.BillingCycle
	IsPublic     bool
}

var defaultPlans = []planSeed{
	{
		Name:         "Free",
		Description:  "Track your finances with the basics.",
		Price:        "0",
		Currency:     "USD",
		BillingCycle: plandomain.BillingCycleFree,
		IsPublic:     true,
	},
	{
		Name:         "Pro Monthly",
		Description:  "Full tracking, budgets and reports, billed monthly.",
		Price:        "9.99",
		Currency:     "USD",
		BillingCycle: plandomain.BillingCycleMonthly,
		IsPublic:     true,
	},
	{
		Name:         "Pro Annual",
		Description:  "Everything in Pro, billed once a year.",
		Price:        "99.99",
		Currency:     "USD",
		BillingCycle: plandomain.BillingCycleAnnually,
		IsPublic:     true,
	},
	{
		Name:         "Lifetime",
		Description:  "Pay once, keep Pro forever.",
		Price:        "299.00",
		Currency:     "USD",
		BillingCycle: plandomain.BillingCycleLifetime,
		IsPublic:     true,
	},
}

// EnsureDefaultPlans inserts any default plan that does not exist yet,
// keyed by slug. Existing rows are left untouched so price changes
// made by operators survive restarts.
func EnsureDefaultPlans(conn *gorm.DB, node *snowflake.Node) error {
	for _, item := range defaultPlans {
		planSlug := slug.Make(item.Name)

		var existing plandomain.Plan
		err := conn.First(&existing, "slug = ?", planSlug).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return err
		}
		plan := plandomain.Plan{
			ID:           node.Generate(),
			Name:         item.Name,
			Slug:         planSlug,
			Description:  item.Description,
			Price:        price,
			Currency:     item.Currency,
			BillingCycle: item.BillingCycle,
			IsPublic:     item.IsPublic,
		}
		if err := conn.Create(&plan).Error; err != nil {
			// Another instance may have seeded the same slug between
			// our lookup and insert.
			if db.IsDuplicateKeyErr(err) {
				continue
			}
			return err
		}
	}
	return nil
}
