package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

var ErrInvalidEncodedID = errors.New("invalid encoded id")

// IDCodec turns positive database ids into short opaque strings and back.
// It hides sequential ids from casual view; it is not access control.
type IDCodec struct {
	h *hashids.HashID
}

func NewIDCodec(salt string, minLength int) (*IDCodec, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = minLength

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("failed to init id codec: %w", err)
	}
	return &IDCodec{h: h}, nil
}

func (c *IDCodec) Encode(id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: id %d is not positive", ErrInvalidEncodedID, id)
	}
	return c.h.EncodeInt64([]int64{id})
}

func (c *IDCodec) Decode(encoded string) (int64, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return 0, ErrInvalidEncodedID
	}

	nums, err := c.h.DecodeInt64WithError(encoded)
	if err != nil || len(nums) != 1 || nums[0] <= 0 {
		return 0, ErrInvalidEncodedID
	}

	// only the canonical encoding is accepted
	back, err := c.h.EncodeInt64(nums)
	if err != nil || back != encoded {
		return 0, ErrInvalidEncodedID
	}
	return nums[0], nil
}
