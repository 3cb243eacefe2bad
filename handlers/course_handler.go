package handlers

import (
	"errors"
	"net/http"

	"github.com/Fermalla/golf-league-system/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(cs services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: cs}
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var input services.CourseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"course": course}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourseHandler) GetCourseByID(w http.ResponseWriter, r *http.Request) {
	courseID, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.courseService.GetCourseByID(r.Context(), courseID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"course": course}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourseHandler) GetAllCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.GetAllCourses(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"courses": courses}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CourseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), courseID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"course": course}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourseHandler) ReplaceHoles(w http.ResponseWriter, r *http.Request) {
	courseID, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Holes []services.HoleInput `json:"holes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	course, err := h.courseService.ReplaceHoles(r.Context(), courseID, input.Holes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"course": course}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourseHandler) UploadCourseLogo(w http.ResponseWriter, r *http.Request) {
	courseID, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	course, err := h.courseService.UploadLogo(r.Context(), courseID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"course": course}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := getIDFromURL(r, "courseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
