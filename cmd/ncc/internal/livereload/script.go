package livereload

import (
	"fmt"
	"net/http"
)

// ScriptPath serves the browser side of the hub.
const ScriptPath = "/__ncc/reload.js"

const script = `(function () {
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + %q + %q);
  ws.onopen = function () { ws.send(JSON.stringify({ type: %q })); };
  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    if (msg.type === %q) location.reload();
    if (msg.type === %q) console.error("[ncc] " + msg.message);
  };
})();
`

// Script returns the client script connecting to a hub listening on addr.
func Script(addr string) string {
	return fmt.Sprintf(script, addr, Path, TypeHello, TypeReload, TypeError)
}

// ScriptHandler serves Script(addr).
func ScriptHandler(addr string) http.Handler {
	body := Script(addr)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Cache-Control", "no-cache")
		fmt.Fprint(w, body)
	})
}
