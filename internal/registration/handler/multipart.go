package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	regmodels "consultly/internal/registration/models"
	"consultly/internal/upload"
	dErrors "consultly/pkg/domain-errors"
	"consultly/pkg/platform/httputil"
)

const multipartMemory = 8 << 20

// document is one required file part and the folder it is stored under.
type document struct {
	field  string
	folder string
	target *string
}

func (h *Handler) handleRegisterIndividual(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.parseMultipart(w, r); err != nil {
		h.fail(ctx, w, "invalid registration form", err)
		return
	}

	req := regmodels.IndividualRequest{
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		Password:       r.FormValue("password"),
		FirstName:      r.FormValue("firstName"),
		LastName:       r.FormValue("lastName"),
		NationalID:     r.FormValue("nationalId"),
		TaxID:          r.FormValue("taxId"),
		Gender:         r.FormValue("gender"),
		DateOfBirth:    r.FormValue("dateOfBirth"),
		County:         r.FormValue("county"),
		Address:        r.FormValue("address"),
		Profession:     r.FormValue("profession"),
		Specialization: r.FormValue("specialization"),
		Skills:         splitList(r.FormValue("skills")),
	}
	var err error
	if req.YearsOfExperience, err = formInt(r, "yearsOfExperience"); err != nil {
		h.fail(ctx, w, "invalid registration form", err)
		return
	}
	if err = formJSON(r, "education", &req.Education); err != nil {
		h.fail(ctx, w, "invalid registration form", err)
		return
	}

	err = h.uploadAll(ctx, r, []document{
		{field: "cv", folder: "consultants/cv", target: &req.CVURL},
		{field: "academicCertificate", folder: "consultants/certificates", target: &req.AcademicCertificateURL},
	})
	if err != nil {
		h.fail(ctx, w, "document upload failed", err)
		return
	}

	res, err := h.service.RegisterIndividual(ctx, &req)
	if err != nil {
		h.fail(ctx, w, "registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleRegisterOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.parseMultipart(w, r); err != nil {
		h.fail(ctx, w, "invalid registration form", err)
		return
	}

	req := regmodels.OrganizationRequest{
		BusinessEmail:      r.FormValue("businessEmail"),
		Phone:              r.FormValue("phone"),
		Password:           r.FormValue("password"),
		Name:               r.FormValue("name"),
		RegistrationNumber: r.FormValue("registrationNumber"),
		TaxID:              r.FormValue("taxId"),
		OrganizationType:   r.FormValue("organizationType"),
		Industry:           r.FormValue("industry"),
		Address:            r.FormValue("address"),
		County:             r.FormValue("county"),
		Website:            r.FormValue("website"),
	}
	if err := formJSON(r, "contactPerson", &req.ContactPerson); err != nil {
		h.fail(ctx, w, "invalid registration form", err)
		return
	}

	docs := &req.Documents
	err := h.uploadAll(ctx, r, []document{
		{field: "incorporationCertificate", folder: "organizations/incorporation", target: &docs.IncorporationCertificateURL},
		{field: "taxComplianceCertificate", folder: "organizations/tax", target: &docs.TaxComplianceCertificateURL},
		{field: "businessPermit", folder: "organizations/permits", target: &docs.BusinessPermitURL},
		{field: "directorsList", folder: "organizations/directors", target: &docs.DirectorsListURL},
	})
	if err != nil {
		h.fail(ctx, w, "document upload failed", err)
		return
	}

	res, err := h.service.RegisterOrganization(ctx, &req)
	if err != nil {
		h.fail(ctx, w, "registration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		}
		return dErrors.Wrap(err, dErrors.CodeValidation, "request must be multipart/form-data")
	}
	return nil
}

// uploadAll checks every document is present before storing any of them.
func (h *Handler) uploadAll(ctx context.Context, r *http.Request, docs []document) error {
	for _, d := range docs {
		if _, _, err := r.FormFile(d.field); err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return dErrors.NewField(dErrors.CodeValidation, d.field, d.field+" file is required")
			}
			return dErrors.NewField(dErrors.CodeValidation, d.field, "could not read "+d.field)
		}
	}
	for _, d := range docs {
		url, err := h.uploadFile(ctx, r, d.field, d.folder)
		if err != nil {
			return err
		}
		*d.target = url
	}
	return nil
}

func (h *Handler) uploadFile(ctx context.Context, r *http.Request, field, folder string) (string, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return "", dErrors.NewField(dErrors.CodeValidation, field, "could not read "+field)
	}
	defer f.Close()

	res, err := h.uploader.Upload(ctx, upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     f,
	}, folder)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store "+field)
	}
	return res.SecureURL, nil
}

func formInt(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.NewField(dErrors.CodeValidation, field, field+" must be a whole number")
	}
	return n, nil
}

// formJSON decodes a nested object sent as a JSON string form value.
func formJSON(r *http.Request, field string, v any) error {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return dErrors.NewField(dErrors.CodeValidation, field, field+" must be valid JSON")
	}
	return nil
}

// splitList accepts a JSON array or a comma separated list.
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &out) == nil {
		return out
	}
	return strings.Split(raw, ",")
}
