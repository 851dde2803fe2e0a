package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"mentorhub_backend/internal/database"
	"mentorhub_backend/internal/models"
	"mentorhub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondInternal logs the underlying error and returns a generic 500 body.
// Internal detail (SQL, driver messages) must never reach the client.
func respondInternal(c *gin.Context, message string, err error) {
	utils.LogError(err, message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// GetApplicationSettings retrieves all application settings
func GetApplicationSettings(c *gin.Context) {
	db := database.GetDB()
	rows, err := db.Query("SELECT id, setting_key, setting_value, description, created_at, updated_at FROM application_settings ORDER BY setting_key")
	if err != nil {
		respondInternal(c, "Failed to fetch application settings", err)
		return
	}
	defer rows.Close()

	settings := []models.ApplicationSetting{}
	for rows.Next() {
		var s models.ApplicationSetting
		if err := rows.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			respondInternal(c, "Failed to fetch application settings", err)
			return
		}
		settings = append(settings, s)
	}
	c.JSON(http.StatusOK, settings)
}

// GetApplicationSettingByKey retrieves a specific application setting by its key
func GetApplicationSettingByKey(c *gin.Context) {
	key := c.Param("key")
	db := database.GetDB()
	var s models.ApplicationSetting
	query := "SELECT id, setting_key, setting_value, description, created_at, updated_at FROM application_settings WHERE setting_key = $1"
	err := db.QueryRow(query, key).Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application setting not found for key: " + key})
		return
	} else if err != nil {
		respondInternal(c, "Failed to fetch application setting", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// CreateOrUpdateApplicationSetting upserts a setting by key. The financial
// engine reads default_vat_rate from this table, so rate changes take effect
// on the next document without a restart.
func CreateOrUpdateApplicationSetting(c *gin.Context) {
	var setting models.ApplicationSetting
	if err := c.ShouldBindJSON(&setting); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if setting.SettingKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Setting key cannot be empty"})
		return
	}

	db := database.GetDB()
	now := time.Now()

	query := `
	    INSERT INTO application_settings (setting_key, setting_value, description, created_at, updated_at)
	    VALUES ($1, $2, $3, $4, $5)
	    ON CONFLICT (setting_key)
	    DO UPDATE SET setting_value = EXCLUDED.setting_value, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at
	    RETURNING id, setting_key, setting_value, description, created_at, updated_at`

	err := db.QueryRow(query, setting.SettingKey, setting.SettingValue, setting.Description, now, now).
		Scan(&setting.ID, &setting.SettingKey, &setting.SettingValue, &setting.Description, &setting.CreatedAt, &setting.UpdatedAt)

	if err != nil {
		respondInternal(c, "Failed to create or update application setting", err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// DeleteApplicationSettingByKey deletes an application setting by its key
func DeleteApplicationSettingByKey(c *gin.Context) {
	key := c.Param("key")
	db := database.GetDB()

	result, err := db.Exec("DELETE FROM application_settings WHERE setting_key = $1", key)
	if err != nil {
		respondInternal(c, "Failed to delete application setting", err)
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application setting not found to delete for key: " + key})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application setting '" + key + "' deleted successfully"})
}
