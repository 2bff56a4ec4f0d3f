package web

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iatek/deptadmin/db"
	"github.com/iatek/deptadmin/domain"
	"golang.org/x/crypto/bcrypt"
)

const tokenLength = 48

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func HandleLogin(c *gin.Context, database *db.DB) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	err, admin := database.ReadAdminByEmail(req.Email)
	if err != nil {
		// Same answer for unknown email and bad password
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	issueSession(c, database, admin)
}

func HandleRegister(c *gin.Context, database *db.DB) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username, email and password are required"})
		return
	}

	if err, _ := database.ReadAdminByEmail(req.Email); err != sql.ErrNoRows {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create the account"})
		return
	}

	err, admin := database.CreateAdmin(req.Username, req.Email, string(hash))
	if err != nil {
		log.Printf("Register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create the account"})
		return
	}

	issueSession(c, database, admin)
}

func HandleMe(c *gin.Context) {
	admin := c.MustGet(adminContextKey).(*domain.Admin)
	c.JSON(http.StatusOK, gin.H{"data": admin.AsUser()})
}

// newSessionToken draws a bearer token from crypto/rand.
func newSessionToken() (string, error) {
	buf := make([]byte, tokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func issueSession(c *gin.Context, database *db.DB, admin *domain.Admin) {
	token, err := newSessionToken()
	if err != nil {
		log.Printf("Could not generate session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create the session"})
		return
	}

	if err := database.CreateSession(token, admin.Id); err != nil {
		log.Printf("Could not create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create the session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"data":  admin.AsUser(),
	})
}
