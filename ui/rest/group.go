package rest

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	domainGroup "github.com/wasched/wasched/domains/group"
	"github.com/wasched/wasched/pkg/utils"
)

// GroupView is a backend group annotated with the local favorite flag.
type GroupView struct {
	domainGroup.Group
	Favorite bool `json:"favorite"`
}

type Group struct {
	API       domainGroup.IGroupAPI
	Favorites domainGroup.IFavoritesRepository
	Promoter  domainGroup.IPromoteUsecase
}

func InitRestGroup(app fiber.Router, api domainGroup.IGroupAPI, favorites domainGroup.IFavoritesRepository, promoter domainGroup.IPromoteUsecase) Group {
	rest := Group{API: api, Favorites: favorites, Promoter: promoter}
	app.Get("/groups", rest.List)
	app.Post("/groups/:id/favorite", rest.ToggleFavorite)
	app.Post("/groups/promote-bot", rest.PromoteBot)
	return rest
}

// List merges the backend group list with the local favorite store.
// Favorites sort first so the composer shows them on top.
func (controller *Group) List(c *fiber.Ctx) error {
	groups, err := controller.API.ListGroups(c.UserContext())
	utils.PanicIfNeeded(err)

	favoriteIDs, err := controller.Favorites.List(c.UserContext())
	utils.PanicIfNeeded(err)

	favored := make(map[string]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favored[id] = true
	}

	views := make([]GroupView, len(groups))
	for i, g := range groups {
		views[i] = GroupView{Group: g, Favorite: favored[g.ID]}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Favorite && !views[j].Favorite
	})

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch groups",
		Results: views,
	})
}

func (controller *Group) ToggleFavorite(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: "id is required",
		})
	}

	favored, err := controller.Favorites.Toggle(c.UserContext(), id)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success toggle favorite",
		Results: fiber.Map{"id": id, "favorite": favored},
	})
}

func (controller *Group) PromoteBot(c *fiber.Ctx) error {
	summary, err := controller.Promoter.PromoteBotAdmin(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success promote bot",
		Results: summary,
	})
}
