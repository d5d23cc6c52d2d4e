//go:build !gcloud

package config

import "errors"

func (c *SinkConfig) Validate() error {
	if c.DeliveryServiceURL == "" {
		return errors.New("DELIVERY_SERVICE_URL is required")
	}
	return nil
}
