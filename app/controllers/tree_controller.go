package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/genbuddy/GenBuddy/app/models"
	"github.com/genbuddy/GenBuddy/app/repository"
	"github.com/genbuddy/GenBuddy/internal/pkg/entitlements"
	"github.com/genbuddy/GenBuddy/internal/pkg/usercontext"
)

type treeCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type personRequest struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
	Gender    string `json:"gender"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
	FatherID  *uint  `json:"father_id"`
	MotherID  *uint  `json:"mother_id"`
	Notes     string `json:"notes"`
}

// HandleCreateTree creates a family tree. Tree creation is the only metered
// tree operation; edits inside an existing tree are free.
// @Summary Create a family tree
// @Tags trees
// @Accept json
// @Produce json
// @Router /api/v1/trees [post]
func HandleCreateTree(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	decision := getEntitlementService().Check(userID, entitlements.FeatureTrees)
	if !decision.Allowed {
		return respondDenied(c, decision)
	}

	var req treeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	tree := &models.FamilyTree{
		UUID:        uuid.New().String(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := validate.Struct(tree); err != nil {
		return badRequest(c, "A tree name of at most 150 characters is required")
	}

	if err := repository.GetTreeRepository().Create(tree); err != nil {
		log.Printf("tree create failed for user %d: %v", userID, err)
		return storageFailure(c)
	}

	recordUsageAfterSuccess(c, userID, entitlements.FeatureTrees, decision.Limit)

	return c.Status(fiber.StatusCreated).JSON(tree)
}

// HandleListTrees returns all trees owned by the caller.
// @Summary List family trees
// @Tags trees
// @Produce json
// @Router /api/v1/trees [get]
func HandleListTrees(c *fiber.Ctx) error {
	trees, err := repository.GetTreeRepository().ListByUser(usercontext.GetUserID(c))
	if err != nil {
		return storageFailure(c)
	}
	return c.JSON(fiber.Map{"trees": trees})
}

// HandleGetTree returns one tree with its persons.
// @Summary Get a family tree
// @Tags trees
// @Produce json
// @Param uuid path string true "Tree UUID"
// @Router /api/v1/trees/{uuid} [get]
func HandleGetTree(c *fiber.Ctx) error {
	tree, ok := loadOwnedTree(c)
	if !ok {
		return nil
	}
	persons, err := repository.GetTreeRepository().ListPersons(tree.ID)
	if err != nil {
		return storageFailure(c)
	}
	tree.Persons = persons
	return c.JSON(tree)
}

// HandleUpdateTree renames a tree or changes its description.
// @Summary Update a family tree
// @Tags trees
// @Accept json
// @Produce json
// @Param uuid path string true "Tree UUID"
// @Router /api/v1/trees/{uuid} [put]
func HandleUpdateTree(c *fiber.Ctx) error {
	tree, ok := loadOwnedTree(c)
	if !ok {
		return nil
	}

	var req treeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		tree.Name = name
	}
	tree.Description = strings.TrimSpace(req.Description)
	if err := validate.Struct(tree); err != nil {
		return badRequest(c, "A tree name of at most 150 characters is required")
	}

	if err := repository.GetTreeRepository().Update(tree); err != nil {
		return storageFailure(c)
	}
	return c.JSON(tree)
}

// HandleDeleteTree deletes a tree and all persons in it. Deleting does not
// refund the creation against the monthly quota.
// @Summary Delete a family tree
// @Tags trees
// @Param uuid path string true "Tree UUID"
// @Router /api/v1/trees/{uuid} [delete]
func HandleDeleteTree(c *fiber.Ctx) error {
	tree, ok := loadOwnedTree(c)
	if !ok {
		return nil
	}
	if err := repository.GetTreeRepository().Delete(tree.ID); err != nil {
		return storageFailure(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAddPerson adds a person to a tree.
// @Summary Add a person to a tree
// @Tags trees
// @Accept json
// @Produce json
// @Param uuid path string true "Tree UUID"
// @Router /api/v1/trees/{uuid}/persons [post]
func HandleAddPerson(c *fiber.Ctx) error {
	tree, ok := loadOwnedTree(c)
	if !ok {
		return nil
	}

	var req personRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	person := personFromRequest(&req)
	person.TreeID = tree.ID
	if err := validate.Struct(person); err != nil {
		return badRequest(c, "Invalid person data")
	}

	if err := repository.GetTreeRepository().CreatePerson(person); err != nil {
		return storageFailure(c)
	}
	return c.Status(fiber.StatusCreated).JSON(person)
}

// HandleUpdatePerson updates a person in a tree.
// @Summary Update a person
// @Tags trees
// @Accept json
// @Produce json
// @Param uuid path string true "Tree UUID"
// @Param id path int true "Person ID"
// @Router /api/v1/trees/{uuid}/persons/{id} [put]
func HandleUpdatePerson(c *fiber.Ctx) error {
	tree, person, ok := loadOwnedPerson(c)
	if !ok {
		return nil
	}

	var req personRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	updated := personFromRequest(&req)
	updated.ID = person.ID
	updated.TreeID = tree.ID
	if err := validate.Struct(updated); err != nil {
		return badRequest(c, "Invalid person data")
	}

	if err := repository.GetTreeRepository().UpdatePerson(updated); err != nil {
		return storageFailure(c)
	}
	return c.JSON(updated)
}

// HandleDeletePerson removes a person from a tree.
// @Summary Delete a person
// @Tags trees
// @Param uuid path string true "Tree UUID"
// @Param id path int true "Person ID"
// @Router /api/v1/trees/{uuid}/persons/{id} [delete]
func HandleDeletePerson(c *fiber.Ctx) error {
	_, person, ok := loadOwnedPerson(c)
	if !ok {
		return nil
	}
	if err := repository.GetTreeRepository().DeletePerson(person.ID); err != nil {
		return storageFailure(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func personFromRequest(req *personRequest) *models.Person {
	return &models.Person{
		GivenName: strings.TrimSpace(req.GivenName),
		Surname:   strings.TrimSpace(req.Surname),
		Gender:    strings.TrimSpace(req.Gender),
		BirthYear: req.BirthYear,
		DeathYear: req.DeathYear,
		FatherID:  req.FatherID,
		MotherID:  req.MotherID,
		Notes:     req.Notes,
	}
}

// loadOwnedTree resolves the :uuid path parameter to a tree owned by the
// caller and writes the error response itself when that fails. Foreign trees
// return 404, not 403, to avoid leaking existence.
func loadOwnedTree(c *fiber.Ctx) (*models.FamilyTree, bool) {
	treeUUID := c.Params("uuid")
	if treeUUID == "" {
		_ = badRequest(c, "A tree UUID is required")
		return nil, false
	}
	tree, err := repository.GetTreeRepository().GetByUUID(treeUUID)
	if err != nil || tree == nil || tree.UserID != usercontext.GetUserID(c) {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Tree not found",
		})
		return nil, false
	}
	return tree, true
}

func loadOwnedPerson(c *fiber.Ctx) (*models.FamilyTree, *models.Person, bool) {
	tree, ok := loadOwnedTree(c)
	if !ok {
		return nil, nil, false
	}
	personID, err := c.ParamsInt("id")
	if err != nil || personID < 1 {
		_ = badRequest(c, "A person ID is required")
		return nil, nil, false
	}
	person, err := repository.GetTreeRepository().GetPerson(uint(personID))
	if err != nil || person == nil || person.TreeID != tree.ID {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Person not found",
		})
		return nil, nil, false
	}
	return tree, person, true
}
