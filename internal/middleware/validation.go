package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/coursecatalog/internal/pkg/apperrors"
)

const idKey = "id"

// ParseIDParam parses the :id path parameter. An id that is not a uuid cannot name any
// record, so it is reported as not found.
func ParseIDParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			HandleError(c, apperrors.NewResourceNotFoundError("Not found"))
			return
		}
		c.Set(idKey, id)
		c.Next()
	}
}

// GetID returns the id stored by ParseIDParam
func GetID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(idKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
