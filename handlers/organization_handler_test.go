package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

func TestBuildDepartmentTree(t *testing.T) {
	eng := models.Department{ID: primitive.NewObjectID(), Name: "Engineering"}
	backend := models.Department{ID: primitive.NewObjectID(), Name: "Backend", ParentID: &eng.ID}
	admin := models.Department{ID: primitive.NewObjectID(), Name: "Admin"}
	missing := primitive.NewObjectID()
	orphan := models.Department{ID: primitive.NewObjectID(), Name: "Orphan", ParentID: &missing}

	users := []models.User{
		{ID: primitive.NewObjectID(), Name: "Ayu", DepartmentID: &backend.ID},
		{ID: primitive.NewObjectID(), Name: "Bima", DepartmentID: &eng.ID},
		{ID: primitive.NewObjectID(), Name: "Citra"},
		{ID: primitive.NewObjectID(), Name: "Dodi", DepartmentID: &eng.ID, Status: models.UserStatusExited},
	}

	tree, unassigned := buildDepartmentTree([]models.Department{backend, eng, admin, orphan}, users)

	if len(tree) != 3 {
		t.Fatalf("roots = %d, want 3", len(tree))
	}
	names := []string{tree[0].Department.Name, tree[1].Department.Name, tree[2].Department.Name}
	if names[0] != "Admin" || names[1] != "Engineering" || names[2] != "Orphan" {
		t.Errorf("roots = %v, want sorted by name", names)
	}
	engNode := tree[1]
	if len(engNode.Children) != 1 || engNode.Children[0].Department.ID != backend.ID {
		t.Fatalf("engineering children = %+v", engNode.Children)
	}
	if len(engNode.Employees) != 1 || engNode.Employees[0].Name != "Bima" {
		t.Errorf("engineering staff = %+v", engNode.Employees)
	}
	if len(engNode.Children[0].Employees) != 1 {
		t.Errorf("backend staff = %+v", engNode.Children[0].Employees)
	}
	if len(unassigned) != 1 || unassigned[0].Name != "Citra" {
		t.Errorf("unassigned = %+v", unassigned)
	}
}

func TestBuildDepartmentTreeCycle(t *testing.T) {
	a := models.Department{ID: primitive.NewObjectID(), Name: "A"}
	b := models.Department{ID: primitive.NewObjectID(), Name: "B"}
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	tree, _ := buildDepartmentTree([]models.Department{a, b}, nil)
	if len(tree) != 1 || len(tree[0].Children) != 1 {
		t.Fatalf("tree = %+v, want one root with one child", tree)
	}
}
