package web

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iatek/deptadmin/db"
	"github.com/iatek/deptadmin/domain"
	"github.com/iatek/deptadmin/util"
)

func HandleListSubmissions(c *gin.Context, database *db.DB) {
	err, subs := database.ReadAllSubmissions()
	if err != nil {
		log.Printf("Could not read submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not read submissions"})
		return
	}

	// Answer [] instead of null for an empty inbox
	if *subs == nil {
		c.JSON(http.StatusOK, []domain.Submission{})
		return
	}

	c.JSON(http.StatusOK, *subs)
}

func HandleCreateSubmission(c *gin.Context, database *db.DB) {
	var sub domain.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if sub.Nom == "" || sub.Email == "" || sub.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nom, email and message are required"})
		return
	}

	sub.Id = ""
	sub.Message = util.NormalizeInput(sub.Message)

	if err := database.CreateSubmission(&sub); err != nil {
		log.Printf("Could not create submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not store the submission"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func HandleDeleteSubmission(c *gin.Context, database *db.DB) {
	id := c.Param("id")

	err := database.DeleteSubmission(id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"message": "Submission not found"})
		return
	}
	if err != nil {
		log.Printf("Could not delete submission %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete the submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}
