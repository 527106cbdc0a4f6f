// Package render defines the renderer contract shared by the HTML and
// terminal front-ends, the renderer registry, theme resolution on top of
// go-theme, and sanitising of operator-supplied notice markup.
package render
