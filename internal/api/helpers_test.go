package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe_api/internal/config"
	"recipe_api/internal/domain"
	"recipe_api/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// testEnv bundles the router and stores a handler test needs
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

// newTestEnv builds a router over an in-memory database and redis
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A named shared-cache in-memory database, so the pool's connections
	// all see the same data within one test
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Tag{}, &domain.Ingredient{}, &domain.Recipe{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{JWTSecret: testSecret, MediaRoot: t.TempDir()}
	return &testEnv{router: SetupRouter(db, rdb, cfg), db: db, cfg: cfg}
}

// createUser persists a user with a bcrypt-hashed password
func (e *testEnv) createUser(t *testing.T, email, password string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Email: domain.NormalizeEmail(email), Password: string(hash), IsActive: true}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

// token issues a JWT for the given user
func (e *testEnv) token(t *testing.T, user domain.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.ID, testSecret)
	require.NoError(t, err)
	return token
}

// request performs a JSON request against the router
func (e *testEnv) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// upload performs a multipart request carrying one file field
func (e *testEnv) upload(t *testing.T, path, field, filename string, content []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	fw, err := form.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, form.Close())
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a response body into dest
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// sampleRecipe persists a recipe with reasonable defaults
func (e *testEnv) sampleRecipe(t *testing.T, user domain.User, title string) domain.Recipe {
	t.Helper()
	recipe := domain.Recipe{
		UserID:      user.ID,
		Title:       title,
		TimeMinutes: 10,
		Price:       5.25,
		Link:        "https://example.com/recipe.pdf",
		Description: "Sample recipe description",
	}
	require.NoError(t, e.db.Create(&recipe).Error)
	return recipe
}

// sampleTag persists a tag for the given user
func (e *testEnv) sampleTag(t *testing.T, user domain.User, name string) domain.Tag {
	t.Helper()
	tag := domain.Tag{Name: name, UserID: user.ID}
	require.NoError(t, e.db.Create(&tag).Error)
	return tag
}

// sampleIngredient persists an ingredient for the given user
func (e *testEnv) sampleIngredient(t *testing.T, user domain.User, name string) domain.Ingredient {
	t.Helper()
	ingredient := domain.Ingredient{Name: name, UserID: user.ID}
	require.NoError(t, e.db.Create(&ingredient).Error)
	return ingredient
}

// attachTag links a tag to a recipe
func (e *testEnv) attachTag(t *testing.T, recipe *domain.Recipe, tag domain.Tag) {
	t.Helper()
	require.NoError(t, e.db.Model(recipe).Association("Tags").Append(&tag))
}

// attachIngredient links an ingredient to a recipe
func (e *testEnv) attachIngredient(t *testing.T, recipe *domain.Recipe, ingredient domain.Ingredient) {
	t.Helper()
	require.NoError(t, e.db.Model(recipe).Association("Ingredients").Append(&ingredient))
}

// pngBytes renders a small valid PNG image
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
