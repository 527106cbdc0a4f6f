// Package html renders quote views as standalone HTML pages using the pongo2
// templates embedded under templates/.
package html
