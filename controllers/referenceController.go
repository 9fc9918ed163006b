package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"civicreporter-be/models"
)

// ReferenceService serves the out-of-band reference data.
type ReferenceService interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListStaff(ctx context.Context) ([]models.StaffMember, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DepartmentByCategory(ctx context.Context, c models.IssueCategory) (models.Department, error)
}

type ReferenceController struct {
	reference ReferenceService
}

func NewReferenceController(svc ReferenceService) *ReferenceController {
	return &ReferenceController{reference: svc}
}

func (rc *ReferenceController) ListDepartments(c *gin.Context) {
	departments, err := rc.reference.ListDepartments(c.Request.Context())
	if err != nil {
		respondError(c, err, "Departments not found", "Failed to fetch departments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

func (rc *ReferenceController) ListStaff(c *gin.Context) {
	staff, err := rc.reference.ListStaff(c.Request.Context())
	if err != nil {
		respondError(c, err, "Staff not found", "Failed to fetch staff members")
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

func (rc *ReferenceController) ListCategories(c *gin.Context) {
	categories, err := rc.reference.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Categories not found", "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// DepartmentForCategory returns the department that handles a category
func (rc *ReferenceController) DepartmentForCategory(c *gin.Context) {
	department, err := rc.reference.DepartmentByCategory(c.Request.Context(), models.IssueCategory(c.Param("category")))
	if err != nil {
		respondError(c, err, "No department handles this category", "Failed to fetch department")
		return
	}
	c.JSON(http.StatusOK, gin.H{"department": department})
}
