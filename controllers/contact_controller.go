package controllers

import (
	"net/http"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	contact    *services.ContactService
	production bool
}

func NewContactController(contact *services.ContactService, production bool) *ContactController {
	return &ContactController{contact: contact, production: production}
}

// @Summary Submit contact form
// @Description Redirects to a WhatsApp chat with the message prefilled
// @Tags Contact
// @Accept x-www-form-urlencoded
// @Param name formData string true "Name"
// @Param phone formData string true "Phone"
// @Param message formData string true "Message"
// @Param g-recaptcha-response formData string false "reCAPTCHA token"
// @Success 303
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /contact [post]
func (ctrl *ContactController) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, ctrl.production)
		return
	}

	target, err := ctrl.contact.Submit(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		respondError(c, err, ctrl.production)
		return
	}

	c.Redirect(http.StatusSeeOther, target)
}
