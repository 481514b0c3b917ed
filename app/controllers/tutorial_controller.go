package controllers

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/WalletFox/app/repository"
	"github.com/ManuelReschke/WalletFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/WalletFox/internal/pkg/utils"
	"github.com/ManuelReschke/WalletFox/internal/pkg/viewmodel"
)

// HandleTutorialIndex renders the tutorial overview.
func HandleTutorialIndex(c *fiber.Ctx) error {
	tutorialRepo := repository.GetGlobalFactory().GetTutorialPageRepository()
	pages, err := tutorialRepo.GetActive()
	if err != nil {
		log.Errorf("[Tutorial] loading pages failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load tutorials")
	}

	layout := newLayout(c, "Tutorials")
	layout.OGViewModel = &viewmodel.OpenGraph{
		Title:       "Tutorials - WalletFox",
		Description: "Step-by-step guides for passkey wallets, gasless transfers and payment mandates.",
		Image:       "/img/walletfox-logo.png",
		URL:         "/tutorials",
	}
	return renderPage(c, "tutorials", layout, fiber.Map{"Pages": pages})
}

// HandleTutorialShow renders a single tutorial by slug.
func HandleTutorialShow(c *fiber.Ctx) error {
	slug := c.Params("slug")

	tutorialRepo := repository.GetGlobalFactory().GetTutorialPageRepository()
	page, err := tutorialRepo.GetBySlug(slug)
	if err != nil || page == nil {
		c.Status(fiber.StatusNotFound)
		return renderPage(c, "errors/404", newLayout(c, "Not Found"), nil)
	}

	if err := counter.AddTutorialView(page.ID); err != nil {
		log.Errorf("[Tutorial] counting view for %s failed: %v", slug, err)
	}

	layout := newLayout(c, page.Title)
	layout.OGViewModel = &viewmodel.OpenGraph{
		Title:       page.Title + " - WalletFox Tutorials",
		Description: "WalletFox tutorial: " + page.Title,
		Image:       "/img/walletfox-logo.png",
		URL:         "/tutorials/" + page.Slug,
	}
	return renderPage(c, "tutorial", layout, fiber.Map{
		"Title":   page.Title,
		"Content": template.HTML(utils.ProcessHTMLContent(page.Content)),
	})
}
