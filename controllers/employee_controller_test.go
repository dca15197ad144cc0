package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employeeRouter(env *testEnv, user *models.User) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(env.db, user))
	router.POST("/employee", env.ctl.CreateEmployee)
	router.GET("/employee", env.ctl.ListEmployees)
	router.PUT("/employee/:id", env.ctl.UpdateEmployee)
	router.PATCH("/employee/:id/status", env.ctl.UpdateEmployeeStatus)
	router.DELETE("/employee/:id", env.ctl.DeleteEmployee)
	return router
}

func TestCreateEmployee(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, models.RoleAdmin)
	router := employeeRouter(env, admin)

	w := doJSON(router, http.MethodPost, "/employee", map[string]interface{}{
		"customId":    "E-001",
		"name":        "Rafiq Islam",
		"department":  "Merchandising",
		"designation": "Senior Merchandiser",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	employee := decode(t, w)["employee"].(map[string]interface{})
	assert.Equal(t, models.StatusActive, employee["status"])

	w = doJSON(router, http.MethodPost, "/employee", map[string]interface{}{
		"customId": "E-001",
		"name":     "Someone Else",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Custom ID already exists, please choose another.", decode(t, w)["error"])

	var count int64
	env.db.Model(&models.Employee{}).Count(&count)
	assert.Equal(t, int64(1), count)

	w = doJSON(router, http.MethodPost, "/employee", map[string]interface{}{"name": "No Id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEmployees(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, models.RoleAdmin)
	router := employeeRouter(env, admin)

	for i := 25; i >= 1; i-- {
		employee := models.Employee{
			CustomID:   fmt.Sprintf("E-%03d", i),
			Name:       fmt.Sprintf("Employee %d", i),
			Status:     models.StatusActive,
			Department: "Sampling",
		}
		if i == 7 {
			employee.Department = "CAD"
		}
		require.NoError(t, env.db.Create(&employee).Error)
	}

	t.Run("default page size and customId order", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/employee", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := decode(t, w)
		data := response["data"].([]interface{})
		require.Len(t, data, 20)
		assert.Equal(t, "E-001", data[0].(map[string]interface{})["customId"])
		assert.Equal(t, "E-020", data[19].(map[string]interface{})["customId"])

		pagination := response["pagination"].(map[string]interface{})
		assert.Equal(t, float64(25), pagination["total"])
		assert.Equal(t, float64(2), pagination["totalPages"])
	})

	t.Run("second page", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/employee?page=2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["data"], 5)
	})

	t.Run("search", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/employee?search=cad", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := decode(t, w)["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, "E-007", data[0].(map[string]interface{})["customId"])
	})
}

func TestUpdateEmployeeStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, models.RoleAdmin)
	router := employeeRouter(env, admin)

	employee := models.Employee{CustomID: "E-900", Name: "Shila", Status: models.StatusActive}
	require.NoError(t, env.db.Create(&employee).Error)
	path := "/employee/" + uintPath(employee.ID) + "/status"

	w := doJSON(router, http.MethodPatch, path, map[string]string{"status": "RETIRED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPatch, path, map[string]string{"status": models.StatusInactive})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusInactive, decode(t, w)["data"].(map[string]interface{})["status"])

	w = doJSON(router, http.MethodPatch, "/employee/9999/status", map[string]string{"status": models.StatusActive})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndDeleteEmployee(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, models.RoleAdmin)
	router := employeeRouter(env, admin)

	first := models.Employee{CustomID: "E-1", Name: "First", Status: models.StatusActive, Designation: "QC"}
	second := models.Employee{CustomID: "E-2", Name: "Second", Status: models.StatusActive}
	require.NoError(t, env.db.Create(&first).Error)
	require.NoError(t, env.db.Create(&second).Error)

	w := doJSON(router, http.MethodPut, "/employee/"+uintPath(first.ID), map[string]interface{}{"name": "First Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "First Renamed", data["name"])
	assert.Equal(t, "QC", data["designation"])

	w = doJSON(router, http.MethodPut, "/employee/"+uintPath(second.ID), map[string]interface{}{"customId": "E-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE", decode(t, w)["code"])

	w = doJSON(router, http.MethodDelete, "/employee/"+uintPath(second.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodDelete, "/employee/"+uintPath(second.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
