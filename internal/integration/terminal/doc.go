// Package terminal switches the controlling terminal in and out of raw mode.
//
// The line editor needs every key byte as soon as it is typed, without the
// kernel line discipline echoing it, buffering whole lines, or turning
// Ctrl-C into SIGINT. EnableRawMode puts a terminal file descriptor into
// that state and returns a State whose Restore puts it back:
//
//	st, err := terminal.EnableRawMode(int(os.Stdin.Fd()))
//	if err != nil {
//	    return err
//	}
//	defer st.Restore()
//
// Raw mode also disables output post-processing, so writers must emit
// "\r\n" rather than "\n".
package terminal
