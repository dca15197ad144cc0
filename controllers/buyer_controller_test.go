package controllers

import (
	"math"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buyerRouter(env *testEnv, user *models.User) *gin.Engine {
	router := gin.New()
	router.Use(mockAuth(env.db, user))
	router.POST("/buyers", env.ctl.CreateBuyer)
	router.GET("/buyers", env.ctl.ListBuyers)
	router.PUT("/buyers/:id", env.ctl.UpdateBuyer)
	router.DELETE("/buyers/:id", env.ctl.DeleteBuyer)
	router.POST("/departments", env.ctl.CreateDepartment)
	router.GET("/departments", env.ctl.ListDepartments)
	router.PUT("/departments/:id", env.ctl.UpdateDepartment)
	router.DELETE("/departments/:id", env.ctl.DeleteDepartment)
	router.GET("/merchandisers", env.ctl.ListMerchandisers)
	return router
}

func TestCreateBuyer(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, models.RoleMerchandiser)
	router := buyerRouter(env, user)

	w := doJSON(router, http.MethodPost, "/departments", map[string]string{
		"name":          "Menswear",
		"contactPerson": "Anna",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	departmentID := decode(t, w)["data"].(map[string]interface{})["id"]

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
	}{
		{
			name:           "with department",
			requestBody:    map[string]interface{}{"name": "H&M", "country": "Sweden", "buyerDepartmentId": departmentID},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing country",
			requestBody:    map[string]interface{}{"name": "Zara"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown department",
			requestBody:    map[string]interface{}{"name": "Zara", "country": "Spain", "buyerDepartmentId": 999},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/buyers", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}

	var buyers []models.Buyer
	require.NoError(t, env.db.Preload("Department").Find(&buyers).Error)
	require.Len(t, buyers, 1)
	require.NotNil(t, buyers[0].Department)
	assert.Equal(t, "Menswear", buyers[0].Department.Name)

	var audit models.AuditLog
	require.NoError(t, env.db.Where("resource = ?", "BUYER").First(&audit).Error)
	assert.Equal(t, user.Email, audit.User)
	assert.Equal(t, models.AuditActionCreate, audit.Action)
}

func TestListAndUpdateBuyers(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, models.RoleAdmin)
	router := buyerRouter(env, user)

	hm := testutil.CreateBuyer(t, env.db, "H&M")
	testutil.CreateBuyer(t, env.db, "Primark")
	require.NoError(t, env.db.Create(&models.Buyer{Name: "Next", Country: "United Kingdom"}).Error)

	w := doJSON(router, http.MethodGet, "/buyers?search=kingdom", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Next", data[0].(map[string]interface{})["name"])

	w = doJSON(router, http.MethodGet, "/buyers?pageSize=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Len(t, response["data"], 2)
	assert.Equal(t, float64(2), response["pagination"].(map[string]interface{})["totalPages"])

	t.Run("page past the end", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/buyers?pageSize=10&page="+strconv.Itoa(math.MaxInt), nil)
		require.Equal(t, http.StatusOK, w.Code)
		response := decode(t, w)
		assert.Empty(t, response["data"])
		assert.Equal(t, float64(3), response["pagination"].(map[string]interface{})["total"])
	})

	t.Run("wildcards match literally", func(t *testing.T) {
		require.NoError(t, env.db.Create(&models.Buyer{Name: "Cotton 100%", Country: "Bangladesh"}).Error)
		defer env.db.Where("name = ?", "Cotton 100%").Delete(&models.Buyer{})

		for search, want := range map[string]int{"%25": 1, "_": 0, "0%25": 1} {
			w := doJSON(router, http.MethodGet, "/buyers?search="+search, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode(t, w)["data"], want, search)
		}
	})

	w = doJSON(router, http.MethodPut, "/buyers/"+uintPath(hm.ID), map[string]interface{}{"country": "Germany"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "H&M", updated["name"])
	assert.Equal(t, "Germany", updated["country"])

	w = doJSON(router, http.MethodPut, "/buyers/"+uintPath(hm.ID), map[string]interface{}{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodDelete, "/buyers/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDepartments(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, models.RoleAdmin)
	router := buyerRouter(env, user)

	w := doJSON(router, http.MethodPost, "/departments", map[string]string{"name": "Kids"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	department := models.Department{Name: "Kids", ContactPerson: "Lars"}
	require.NoError(t, env.db.Create(&department).Error)

	w = doJSON(router, http.MethodGet, "/departments?search=lars", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = doJSON(router, http.MethodPut, "/departments/"+uintPath(department.ID), map[string]string{"contactPerson": "Maja"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maja", decode(t, w)["data"].(map[string]interface{})["contactPerson"])

	w = doJSON(router, http.MethodDelete, "/departments/"+uintPath(department.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListMerchandisers(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, models.RoleAdmin)
	active := testutil.CreateUser(t, env.db, models.RoleMerchandiser)
	inactive := testutil.CreateUser(t, env.db, models.RoleMerchandiser)
	require.NoError(t, env.db.Model(inactive).Update("status", models.StatusInactive).Error)
	testutil.CreateUser(t, env.db, models.RoleManager)

	w := doJSON(buyerRouter(env, admin), http.MethodGet, "/merchandisers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, float64(active.ID), data[0].(map[string]interface{})["id"])
}
