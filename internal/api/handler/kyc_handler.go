package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
)

const maxKycPictureBytes = 10 << 20

// KycHandler reads and submits user KYC records. Pictures arrive as
// multipart files and are stored encrypted on IPFS before submission.
type KycHandler struct {
	kyc      ports.KycAPI
	uploader ports.Uploader
}

func NewKycHandler(kyc ports.KycAPI, uploader ports.Uploader) *KycHandler {
	return &KycHandler{kyc: kyc, uploader: uploader}
}

// Get godoc
//
// @Summary  KYC record of a user
// @Tags     kyc
// @Produce  json
// @Param    id   path      int  true  "User id"
// @Success  200  {object}  domain.UserKyc
// @Failure  404  {object}  map[string]string
// @Router   /users/{id}/kyc [get]
func (h *KycHandler) Get(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	k, err := h.kyc.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, k)
}

// Submit godoc
//
// @Summary  Submit the KYC record of a user
// @Tags     kyc
// @Accept   multipart/form-data
// @Produce  json
// @Param    id         path      int     true  "User id"
// @Param    id_idtype  formData  int     true  "Identification type"
// @Param    identity   formData  string  true  "Identification number"
// @Param    pictures   formData  file    true  "Identification pictures"
// @Success  201        {object}  confirmationResponse
// @Failure  400        {object}  map[string]string
// @Failure  422        {object}  map[string]string
// @Router   /users/{id}/kyc [post]
func (h *KycHandler) Submit(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	idType, err := strconv.ParseInt(c.FormValue("id_idtype"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id_idtype")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	headers := form.File["pictures"]
	if len(headers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "pictures is required")
	}

	files := make([]ports.UploadInput, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxKycPictureBytes {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fh.Filename+" is too large")
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		files = append(files, ports.UploadInput{
			Name: fh.Filename,
			Mime: fh.Header.Get(echo.HeaderContentType),
			Data: data,
		})
	}

	ctx := c.Request().Context()
	stored, err := h.uploader.UploadEncrypted(ctx, files, userID)
	if err != nil {
		return err
	}
	pictures, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	conf, err := h.kyc.Submit(ctx, domain.KycSubmission{
		IDUser:   userID,
		IDIdType: idType,
		Identity: c.FormValue("identity"),
		Pictures: pictures,
	})
	if err != nil {
		return err
	}
	return confirmation(c, http.StatusCreated, conf)
}
