package handlers

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/kiosk"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type OrganizationHandler struct {
	orgRepo  repository.OrganizationRepository
	deptRepo repository.DepartmentRepository
	userRepo repository.UserRepository
}

func NewOrganizationHandler(orgRepo repository.OrganizationRepository, deptRepo repository.DepartmentRepository, userRepo repository.UserRepository) *OrganizationHandler {
	return &OrganizationHandler{orgRepo: orgRepo, deptRepo: deptRepo, userRepo: userRepo}
}

// CreateOrganization godoc
// @Summary Create organization
// @Tags Organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param organization body models.OrganizationPayload true "Organization"
// @Success 201 {object} models.Envelope{data=models.Organization}
// @Failure 409 {object} models.ErrorEnvelope "Name already used"
// @Router /organizations [post]
func (h *OrganizationHandler) CreateOrganization(c *fiber.Ctx) error {
	var payload models.OrganizationPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	org := &models.Organization{
		Name:     strings.TrimSpace(payload.Name),
		Address:  payload.Address,
		Industry: payload.Industry,
		Settings: models.DefaultOrgSettings(),
	}
	if payload.Settings != nil {
		org.Settings = *payload.Settings
	}
	secret, err := kiosk.NewSecret(org.Name)
	if err != nil {
		return err
	}
	org.KioskSecret = secret

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.orgRepo.FindOrganizationByName(ctx, org.Name); err == nil {
		return fiber.NewError(fiber.StatusConflict, "Organization name is already used")
	}
	if err := h.orgRepo.CreateOrganization(ctx, org); err != nil {
		return storeError(err, "Organization")
	}
	return util.Success(c, fiber.StatusCreated, "Organization created", org)
}

// GetAllOrganizations godoc
// @Summary List organizations
// @Tags Organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.Organization}
// @Router /organizations [get]
func (h *OrganizationHandler) GetAllOrganizations(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	orgs, err := h.orgRepo.ListOrganizations(ctx)
	if err != nil {
		return storeError(err, "Organizations")
	}
	return util.Success(c, fiber.StatusOK, "", orgs)
}

// GetOrganizationByID godoc
// @Summary Get organization
// @Tags Organizations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Envelope{data=models.Organization}
// @Failure 404 {object} models.ErrorEnvelope
// @Router /organizations/{id} [get]
func (h *OrganizationHandler) GetOrganizationByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.orgRepo.FindOrganizationByID(ctx, id)
	if err != nil {
		return storeError(err, "Organization")
	}
	return util.Success(c, fiber.StatusOK, "", org)
}

// UpdateOrganization godoc
// @Summary Update organization
// @Tags Organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Param organization body models.OrganizationPayload true "Organization"
// @Success 200 {object} models.Envelope{data=models.Organization}
// @Router /organizations/{id} [put]
func (h *OrganizationHandler) UpdateOrganization(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.OrganizationPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.orgRepo.FindOrganizationByID(ctx, id)
	if err != nil {
		return storeError(err, "Organization")
	}
	name := strings.TrimSpace(payload.Name)
	if !strings.EqualFold(name, org.Name) {
		if other, err := h.orgRepo.FindOrganizationByName(ctx, name); err == nil && other.ID != org.ID {
			return fiber.NewError(fiber.StatusConflict, "Organization name is already used")
		}
	}
	org.Name = name
	org.Address = payload.Address
	org.Industry = payload.Industry
	if payload.Settings != nil {
		org.Settings = *payload.Settings
	}
	if err := h.orgRepo.SaveOrganization(ctx, org); err != nil {
		return storeError(err, "Organization")
	}
	return util.Success(c, fiber.StatusOK, "Organization updated", org)
}

// UpdateSettings godoc
// @Summary Update attendance settings
// @Tags Organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Param settings body models.OrgSettingsPayload true "Settings"
// @Success 200 {object} models.Envelope{data=models.Organization}
// @Router /organizations/{id}/settings [put]
func (h *OrganizationHandler) UpdateSettings(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.OrgSettingsPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.orgRepo.FindOrganizationByID(ctx, id)
	if err != nil {
		return storeError(err, "Organization")
	}
	org.Settings = models.OrgSettings{
		StandardHours:      payload.StandardHours,
		HalfDayHours:       payload.HalfDayHours,
		GraceMinutes:       payload.GraceMinutes,
		ShiftStart:         payload.ShiftStart,
		ShiftEnd:           payload.ShiftEnd,
		WorkingDaysPerWeek: payload.WorkingDaysPerWeek,
	}
	if err := h.orgRepo.SaveOrganization(ctx, org); err != nil {
		return storeError(err, "Organization")
	}
	return util.Success(c, fiber.StatusOK, "Settings updated", org)
}

// RotateKioskSecret godoc
// @Summary Rotate kiosk secret
// @Description Invalidates the current kiosk punch codes
// @Tags Organizations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Envelope
// @Router /organizations/{id}/kiosk-secret [post]
func (h *OrganizationHandler) RotateKioskSecret(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.orgRepo.FindOrganizationByID(ctx, id)
	if err != nil {
		return storeError(err, "Organization")
	}
	if org.KioskSecret, err = kiosk.NewSecret(org.Name); err != nil {
		return err
	}
	if err := h.orgRepo.SaveOrganization(ctx, org); err != nil {
		return storeError(err, "Organization")
	}
	return util.Success(c, fiber.StatusOK, "Kiosk secret rotated", nil)
}

// DeleteOrganization godoc
// @Summary Delete organization
// @Description Only organizations without departments can be deleted
// @Tags Organizations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Envelope
// @Failure 409 {object} models.ErrorEnvelope "Organization still has departments"
// @Router /organizations/{id} [delete]
func (h *OrganizationHandler) DeleteOrganization(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	depts, err := h.deptRepo.GetAllDepartments(ctx, &id)
	if err != nil {
		return storeError(err, "Departments")
	}
	if len(depts) > 0 {
		return fiber.NewError(fiber.StatusConflict, "Organization still has departments")
	}
	if err := h.orgRepo.DeleteOrganization(ctx, id); err != nil {
		return storeError(err, "Organization")
	}
	return util.Success(c, fiber.StatusOK, "Organization deleted", nil)
}

type HierarchyResponse struct {
	Organization models.Organization    `json:"organization"`
	Departments  []models.DepartmentNode `json:"departments"`
	Unassigned   []models.EmployeeRef    `json:"unassigned"`
}

// GetHierarchy godoc
// @Summary Organization hierarchy
// @Description Department tree with employees nested under their department
// @Tags Hierarchy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organization ID"
// @Success 200 {object} models.Envelope{data=HierarchyResponse}
// @Router /organizations/{id}/hierarchy [get]
func (h *OrganizationHandler) GetHierarchy(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.orgRepo.FindOrganizationByID(ctx, id)
	if err != nil {
		return storeError(err, "Organization")
	}
	depts, err := h.deptRepo.GetAllDepartments(ctx, &id)
	if err != nil {
		return storeError(err, "Departments")
	}
	users, err := h.userRepo.FindByOrganization(ctx, id)
	if err != nil {
		return storeError(err, "Users")
	}

	tree, unassigned := buildDepartmentTree(depts, users)
	return util.Success(c, fiber.StatusOK, "", HierarchyResponse{
		Organization: *org,
		Departments:  tree,
		Unassigned:   unassigned,
	})
}

// buildDepartmentTree nests departments under their parents and employees
// under their department. Departments whose parent is missing become roots.
func buildDepartmentTree(depts []models.Department, users []models.User) ([]models.DepartmentNode, []models.EmployeeRef) {
	byID := make(map[primitive.ObjectID]models.Department, len(depts))
	for _, d := range depts {
		byID[d.ID] = d
	}

	children := make(map[primitive.ObjectID][]models.Department)
	var roots []models.Department
	for _, d := range depts {
		if d.ParentID != nil && *d.ParentID != d.ID {
			if _, ok := byID[*d.ParentID]; ok {
				children[*d.ParentID] = append(children[*d.ParentID], d)
				continue
			}
		}
		roots = append(roots, d)
	}

	staff := make(map[primitive.ObjectID][]models.EmployeeRef)
	unassigned := []models.EmployeeRef{}
	for _, u := range users {
		if u.Status == models.UserStatusExited {
			continue
		}
		if u.DepartmentID != nil {
			if _, ok := byID[*u.DepartmentID]; ok {
				staff[*u.DepartmentID] = append(staff[*u.DepartmentID], models.RefOf(u))
				continue
			}
		}
		unassigned = append(unassigned, models.RefOf(u))
	}

	visited := make(map[primitive.ObjectID]bool)
	var build func(d models.Department) models.DepartmentNode
	build = func(d models.Department) models.DepartmentNode {
		visited[d.ID] = true
		node := models.DepartmentNode{
			Department: d,
			Employees:  staff[d.ID],
			Children:   []models.DepartmentNode{},
		}
		if node.Employees == nil {
			node.Employees = []models.EmployeeRef{}
		}
		for _, child := range children[d.ID] {
			if !visited[child.ID] {
				node.Children = append(node.Children, build(child))
			}
		}
		return node
	}

	sortByName(roots)
	for id := range children {
		sortByName(children[id])
	}

	tree := []models.DepartmentNode{}
	for _, r := range roots {
		tree = append(tree, build(r))
	}
	// departments caught in a parent cycle
	for _, d := range depts {
		if !visited[d.ID] {
			tree = append(tree, build(d))
		}
	}
	return tree, unassigned
}

func sortByName(depts []models.Department) {
	sort.Slice(depts, func(i, j int) bool { return depts[i].Name < depts[j].Name })
}
