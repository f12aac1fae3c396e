package registry

import (
	"github.com/nfrund/recipebox/internal/pubsub"
	"github.com/nfrund/recipebox/internal/rendering"
)

// Core services registered by the server before modules boot.
const (
	PublisherKey  Key[pubsub.Publisher]   = "core.publisher"
	SubscriberKey Key[pubsub.Subscriber]  = "core.subscriber"
	RendererKey   Key[rendering.Renderer] = "core.renderer"
)
