package factscan

import "errors"

type conn struct {
	id int
}

func kmalloc(n int) *byte {
	buf := make([]byte, n)
	return &buf[0]
}

func open(id int) *conn { // want open:"maynull:0"
	if id == 0 {
		return nil
	}
	return &conn{id: id}
}

func reopen(id int) *conn { // want reopen:"maynull:0"
	return open(id + 1)
}

func alloc(n int) *byte { // want alloc:"maynull:0"
	return kmalloc(n)
}

func always() *conn {
	return &conn{}
}

func pair(id int) (*conn, error) { // want pair:"maynull:0"
	if id < 0 {
		return nil, errors.New("bad id")
	}
	return &conn{id: id}, nil
}

func nonPointer(id int) int {
	if id == 0 {
		return 0
	}
	return id
}
