package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type DepartmentHandler struct {
	deptRepo repository.DepartmentRepository
	userRepo repository.UserRepository
}

func NewDepartmentHandler(deptRepo repository.DepartmentRepository, userRepo repository.UserRepository) *DepartmentHandler {
	return &DepartmentHandler{
		deptRepo: deptRepo,
		userRepo: userRepo,
	}
}

// CreateDepartment godoc
// @Summary Create department
// @Description Department names are unique within an organization
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param department body models.DepartmentPayload true "Department"
// @Success 201 {object} models.Envelope{data=models.Department}
// @Failure 400 {object} models.ValidationErrorEnvelope
// @Failure 409 {object} models.ErrorEnvelope "Department name already exists"
// @Router /departments [post]
func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var payload models.DepartmentPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	dept := &models.Department{}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.apply(ctx, dept, payload); err != nil {
		return err
	}
	if err := h.deptRepo.CreateDepartment(ctx, dept); err != nil {
		return storeError(err, "Department")
	}
	return util.Success(c, fiber.StatusCreated, "Department created", dept)
}

// apply copies the payload onto dept after checking name uniqueness and
// that the parent exists and does not create a cycle.
func (h *DepartmentHandler) apply(ctx context.Context, dept *models.Department, p models.DepartmentPayload) error {
	orgID, err := optionalID(p.OrganizationID, "organization_id")
	if err != nil {
		return err
	}
	headID, err := optionalID(p.HeadID, "head_id")
	if err != nil {
		return err
	}
	parentID, err := optionalID(p.ParentID, "parent_id")
	if err != nil {
		return err
	}

	name := strings.TrimSpace(p.Name)
	if existing, err := h.deptRepo.FindDepartmentByName(ctx, orgID, name); err == nil && existing.ID != dept.ID {
		return fiber.NewError(fiber.StatusConflict, "Department name already exists")
	}
	if headID != nil {
		if _, err := h.userRepo.FindUserByID(ctx, *headID); err != nil {
			return storeError(err, "Department head")
		}
	}
	if parentID != nil {
		if err := h.checkParent(ctx, dept.ID, *parentID); err != nil {
			return err
		}
	}

	dept.Name = name
	dept.Description = p.Description
	dept.OrganizationID = orgID
	dept.HeadID = headID
	dept.ParentID = parentID
	return nil
}

func (h *DepartmentHandler) checkParent(ctx context.Context, self, parentID primitive.ObjectID) error {
	if parentID == self {
		return fiber.NewError(fiber.StatusBadRequest, "A department cannot be its own parent")
	}
	seen := map[primitive.ObjectID]bool{}
	next := &parentID
	for next != nil && !seen[*next] {
		seen[*next] = true
		parent, err := h.deptRepo.GetDepartmentByID(ctx, *next)
		if err != nil {
			if *next == parentID {
				return storeError(err, "Parent department")
			}
			return nil
		}
		if !self.IsZero() && parent.ParentID != nil && *parent.ParentID == self {
			return fiber.NewError(fiber.StatusBadRequest, "Parent department would create a cycle")
		}
		next = parent.ParentID
	}
	return nil
}

// GetAllDepartments godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param organization_id query string false "Organization ID"
// @Success 200 {object} models.Envelope{data=[]models.Department}
// @Router /departments [get]
func (h *DepartmentHandler) GetAllDepartments(c *fiber.Ctx) error {
	orgID, err := optionalID(c.Query("organization_id"), "organization_id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	departments, err := h.deptRepo.GetAllDepartments(ctx, orgID)
	if err != nil {
		return storeError(err, "Departments")
	}
	return util.Success(c, fiber.StatusOK, "", departments)
}

// GetDepartmentByID godoc
// @Summary Get department
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} models.Envelope{data=models.Department}
// @Failure 404 {object} models.ErrorEnvelope
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetDepartmentByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	department, err := h.deptRepo.GetDepartmentByID(ctx, id)
	if err != nil {
		return storeError(err, "Department")
	}
	return util.Success(c, fiber.StatusOK, "", department)
}

// UpdateDepartment godoc
// @Summary Update department
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param department body models.DepartmentPayload true "Department"
// @Success 200 {object} models.Envelope{data=models.Department}
// @Router /departments/{id} [put]
func (h *DepartmentHandler) UpdateDepartment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.DepartmentPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	dept, err := h.deptRepo.GetDepartmentByID(ctx, id)
	if err != nil {
		return storeError(err, "Department")
	}
	if err := h.apply(ctx, dept, payload); err != nil {
		return err
	}
	if err := h.deptRepo.SaveDepartment(ctx, dept); err != nil {
		return storeError(err, "Department")
	}
	return util.Success(c, fiber.StatusOK, "Department updated", dept)
}

// DeleteDepartment godoc
// @Summary Delete department
// @Description Fails while the department has sub-departments or employees
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} models.Envelope
// @Failure 409 {object} models.ErrorEnvelope "Department is still in use"
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	children, err := h.deptRepo.CountChildren(ctx, id)
	if err != nil {
		return storeError(err, "Department")
	}
	_, members, err := h.userRepo.ListUsers(ctx, repository.UserFilter{DepartmentID: &id}, 1, 1)
	if err != nil {
		return storeError(err, "Users")
	}
	if children > 0 || members > 0 {
		return fiber.NewError(fiber.StatusConflict, "Department still has sub-departments or employees")
	}
	if err := h.deptRepo.DeleteDepartment(ctx, id); err != nil {
		return storeError(err, "Department")
	}
	return util.Success(c, fiber.StatusOK, "Department deleted", nil)
}
