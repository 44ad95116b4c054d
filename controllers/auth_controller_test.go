package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rafiansyah/docqa-backend/middleware"
	"github.com/rafiansyah/docqa-backend/utils"
)

// setupAuthTest merangkai router login di atas database tiruan. Controller
// hanya mendapat database lewat context, sama seperti di routes.SetupRouter.
func setupAuthTest(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *utils.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}

	tokens, err := utils.NewTokenManager("kunci-uji")
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	r := gin.New()
	authCtl := NewAuthController(tokens)
	r.POST("/api/auth/login", middleware.DBMiddleware(gormDB), authCtl.Login)
	return r, mock, tokens
}

func userRow(t *testing.T, username, password string) *sqlmock.Rows {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return sqlmock.NewRows([]string{"id", "username", "email", "password", "role", "is_active"}).
		AddRow(uuid.New().String(), username, "rafi@students.unnes.ac.id", string(hashed), "user", true)
}

func postLogin(r *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginIssuesToken(t *testing.T) {
	r, mock, tokens := setupAuthTest(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(t, "rafi", "rahasia123"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "last_login"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := postLogin(r, map[string]string{"username": "rafi", "password": "rahasia123"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode respons: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}
	claims, err := tokens.Verify(resp.AccessToken)
	if err != nil {
		t.Fatalf("token yang diterbitkan harus valid: %v", err)
	}
	if claims.Username != "rafi" || claims.Role != "user" {
		t.Errorf("claims = %+v", claims)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("query ke database tiruan tidak lengkap: %v", err)
	}
}

func TestLoginSucceedsWhenLastLoginUpdateFails(t *testing.T) {
	r, mock, _ := setupAuthTest(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(t, "rafi", "rahasia123"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "last_login"`).
		WillReturnError(gorm.ErrInvalidDB)
	mock.ExpectRollback()

	w := postLogin(r, map[string]string{"username": "rafi", "password": "rahasia123"})
	if w.Code != http.StatusOK {
		t.Fatalf("kegagalan mencatat last_login tidak boleh menggagalkan login, status = %d", w.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r, mock, _ := setupAuthTest(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow(t, "rafi", "rahasia123"))

	w := postLogin(r, map[string]string{"username": "rafi", "password": "salah-total"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
