package rabbitmq

import "storefront-service/internal/infra"

var _ infra.EventPublisher = (*Publisher)(nil)
