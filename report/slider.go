package report

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// sliderScript shows one item at a time. It locates its controls relative
// to itself so several sliders can live on one page. Formatted with the
// JSON label array and the autoplay interval in milliseconds.
const sliderScript = `(() => {
const labels = %s;
const controls = document.currentScript.parentNode;
const container = controls.parentNode;
const slider = controls.querySelector("input[type=range]");
const counter = controls.querySelector("label");
const button = controls.querySelector("button");
const items = Array.from(container.children).slice(0, -1);
for (const item of items) {
  item.style.display = "none";
}
let current = null;
const show = () => {
  const next = items[slider.valueAsNumber];
  const ready = typeof next.decode === "function" ? next.decode() : Promise.resolve();
  ready.catch(() => {}).then(() => {
    counter.textContent = labels[slider.valueAsNumber];
    if (current) {
      current.style.display = "none";
    }
    current = next;
    current.style.display = "";
  });
};
slider.oninput = show;
show();
let timer = null;
button.onclick = () => {
  if (timer === null) {
    timer = window.setInterval(() => {
      slider.value = (slider.valueAsNumber + 1) %% items.length;
      show();
    }, %d);
  } else {
    window.clearInterval(timer);
    timer = null;
  }
};
})();`

// Slider stacks items and adds a range input, a play/pause button and an
// inline script so the reader can step through them in the browser.
func (r *Renderer) Slider(items []any, opts ...LayoutOption) (*html.Node, error) {
	l := r.layout(opts)
	n := len(items)
	path := field.NewPath("slider")
	var errs field.ErrorList
	if n == 0 {
		errs = append(errs, field.Required(path.Child("items"), "at least one item is required"))
	}
	if l.interval <= 0 {
		errs = append(errs, field.Invalid(path.Child("interval"), l.interval.String(), "must be positive"))
	}
	if l.labelsSet && len(l.labels) != n {
		errs = append(errs, field.Invalid(path.Child("labels"), len(l.labels), fmt.Sprintf("must have one label per item (%d)", n)))
	}
	if err := layoutError(errs); err != nil {
		return nil, err
	}

	nodes, err := r.renderItems(items)
	if err != nil {
		return nil, err
	}

	labels, err := json.Marshal(sliderLabels(l, n))
	if err != nil {
		return nil, fmt.Errorf("encode slider labels: %w", err)
	}

	id := uuid.NewString()
	rangeID := "slider-" + id

	counter := element(atom.Label, attr("id", "counter-"+id), attr("for", rangeID))
	input := element(atom.Input,
		attr("id", rangeID),
		attr("name", "slider"),
		attr("type", "range"),
		attr("min", "0"),
		attr("max", strconv.Itoa(n-1)),
		attr("value", "0"),
	)
	button := element(atom.Button, attr("id", "playpause-"+id), attr("type", "button"))
	button.AppendChild(text("⏯"))
	script := element(atom.Script)
	script.AppendChild(text(fmt.Sprintf(sliderScript, labels, l.interval.Milliseconds())))

	controls := element(atom.Div,
		attr("class", "slider"),
		attr("style", "display: flex; align-items: center; justify-content: center"),
	)
	appendAll(controls, []*html.Node{counter, input, button, script})

	container := element(atom.Div)
	if l.style != "" {
		container.Attr = append(container.Attr, attr("style", l.style))
	}
	appendAll(container, nodes)
	container.AppendChild(controls)
	r.log.V(3).Info("built slider", "id", id, "items", n, "interval", l.interval)
	return container, nil
}

func sliderLabels(l layout, n int) []string {
	if l.labelsSet {
		return l.labels
	}
	labels := make([]string, n)
	for i := range labels {
		if l.prefixSet {
			labels[i] = fmt.Sprintf("%s %d", l.prefix, i)
		} else {
			labels[i] = strconv.Itoa(i)
		}
	}
	return labels
}
