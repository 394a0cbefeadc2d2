package autosave

import (
	"strconv"
	"strings"
)

// scriptTemplate is the browser runtime. Placeholders are substituted from
// Options when the script is built. The form snapshot is taken when the
// timer fires, not when it is scheduled, so a save always carries the
// latest field values.
const scriptTemplate = `(function () {
  'use strict';

  function attach(form) {
    var timer = null;

    function save() {
      timer = null;
      var endpoint = form.getAttribute('{{ENDPOINT_ATTR}}');
      if (!endpoint) {
        return;
      }
      fetch(endpoint, {
        method: 'POST',
        headers: { '{{HEADER_NAME}}': '{{HEADER_VALUE}}' },
        body: new URLSearchParams(new FormData(form))
      }).catch(function () {});
    }

    function schedule() {
      if (!form.getAttribute('{{ENDPOINT_ATTR}}')) {
        return;
      }
      if (timer !== null) {
        clearTimeout(timer);
      }
      timer = setTimeout(save, {{QUIET_MS}});
    }

    form.addEventListener('input', schedule);
    form.addEventListener('change', schedule);
  }

  var forms = document.querySelectorAll('form[{{MARKER_ATTR}}]');
  Array.prototype.forEach.call(forms, attach);
})();
`

// Script renders the browser runtime with default options plus any overrides.
func Script(fns ...OptionFn) string {
	return ScriptWithOptions(NewOptions(fns...))
}

// ScriptWithOptions renders the browser runtime from a pre-built Options
// value. Callers are expected to pass an Options value produced by
// NewOptions (or equivalent) so defaults apply.
func ScriptWithOptions(opts Options) string {
	opts = NewOptions(func(o *Options) { *o = opts })
	replacer := strings.NewReplacer(
		"{{MARKER_ATTR}}", opts.MarkerAttr,
		"{{ENDPOINT_ATTR}}", opts.EndpointAttr,
		"{{HEADER_NAME}}", opts.HeaderName,
		"{{HEADER_VALUE}}", opts.HeaderValue,
		"{{QUIET_MS}}", strconv.FormatInt(opts.QuietPeriod.Milliseconds(), 10),
	)
	return replacer.Replace(scriptTemplate)
}

// FormAttrs returns the attribute fragment a template puts on a <form> tag
// to opt it into autosave, e.g.
//
//	<form method="post" action="/shift/7/close" {{ attrs }}>
//
// An empty endpoint yields only the marker attribute, which leaves the form
// inert.
func FormAttrs(endpoint string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	if endpoint == "" {
		return opts.MarkerAttr
	}
	return opts.MarkerAttr + ` ` + opts.EndpointAttr + `="` + htmlEscape(endpoint) + `"`
}

func htmlEscape(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(value)
}
