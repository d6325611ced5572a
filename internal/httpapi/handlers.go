package httpapi

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/attendance"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/auth"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/roster"
)

type handlers struct {
	cfg  Config
	deps Deps
}

func (h *handlers) banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Automated Attendance System API"})
}

func (h *handlers) dashboardStats(c *gin.Context) {
	stats, err := h.deps.Dashboard.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) createStudent(c *gin.Context) {
	rollNo, err := strconv.Atoi(c.PostForm("roll_no"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roll_no must be an integer"})
		return
	}

	image, ok := readFormImage(c, "face_image")
	if !ok {
		return
	}

	student, err := h.deps.Roster.Register(c.Request.Context(), roster.RegisterInput{
		StudentName: c.PostForm("student_name"),
		ClassName:   c.PostForm("class_name"),
		RollNo:      rollNo,
		FatherName:  c.PostForm("father_name"),
		FaceImage:   image,
	})
	if err != nil {
		if errors.Is(err, roster.ErrDuplicateRoll) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Roll number already exists in this class"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, student)
}

func (h *handlers) listStudents(c *gin.Context) {
	students, err := h.deps.Roster.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *handlers) listStudentsByClass(c *gin.Context) {
	students, err := h.deps.Roster.ListByClass(c.Request.Context(), c.Param("class_name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *handlers) markAttendance(c *gin.Context) {
	className := c.PostForm("class_name")
	if className == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_name required"})
		return
	}
	image, ok := readFormImage(c, "face_image")
	if !ok {
		return
	}

	res, err := h.deps.Attendance.Mark(c.Request.Context(), className, image)
	if err != nil {
		var noMatch *attendance.NoMatchError
		var already *attendance.AlreadyMarkedError
		switch {
		case errors.Is(err, attendance.ErrNoStudents):
			c.JSON(http.StatusNotFound, gin.H{"error": "No students found in this class"})
		case errors.As(err, &noMatch):
			c.JSON(http.StatusNotFound, gin.H{
				"message":    "No matching student found",
				"recognized": noMatch.Recognized,
			})
		case errors.As(err, &already):
			c.JSON(http.StatusConflict, gin.H{"message": already.Error()})
		case errors.Is(err, attendance.ErrRecognitionUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Face recognition service unavailable"})
		default:
			log.Printf("mark attendance failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attendance marked successfully for " + res.Student.StudentName,
		"student": gin.H{
			"name":    res.Student.StudentName,
			"class":   res.Student.ClassName,
			"roll_no": res.Student.RollNo,
		},
		"time": res.Record.Time,
	})
}

func (h *handlers) todaysAttendance(c *gin.Context) {
	records, err := h.deps.Attendance.Today(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *handlers) classAttendance(c *gin.Context) {
	records, err := h.deps.Attendance.TodayByClass(c.Request.Context(), c.Param("class_name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *handlers) listClasses(c *gin.Context) {
	classes, err := h.deps.Roster.Classes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if classes == nil {
		classes = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

func (h *handlers) registerDevice(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.deps.Kiosk.Register(c.Request.Context(), req.DeviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := auth.Issue(req.DeviceID, "device", h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	if err := h.deps.Kiosk.RememberRefreshToken(c.Request.Context(), req.DeviceID, tokens.RefreshToken, tokens.RefreshExp); err != nil {
		log.Printf("save refresh token failed: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

// readFormImage pulls a multipart file field and replies 400 itself when the
// field is missing or unreadable.
func readFormImage(c *gin.Context, field string) ([]byte, bool) {
	file, _, err := c.Request.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " file required"})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read " + field})
		return nil, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " is empty"})
		return nil, false
	}
	return data, true
}
