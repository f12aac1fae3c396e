package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// AdaptGomponentToTempl exposes a gomponents node as a templ component, for
// slots that take templ components.
func AdaptGomponentToTempl(node g.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if node == nil {
			return nil
		}
		return node.Render(w)
	})
}

// AdaptTemplToGomponent renders a templ component inside a gomponents tree.
// gomponents carries no context, so the component sees context.Background().
func AdaptTemplToGomponent(component templ.Component) g.Node {
	return g.NodeFunc(func(w io.Writer) error {
		if component == nil {
			return nil
		}
		return component.Render(context.Background(), w)
	})
}
