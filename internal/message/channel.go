package message

// Unbounded returns a send/receive pair where the sender never waits on the
// receiver. Values come out in the order they went in. Closing in delivers the
// queued values and then closes out.
func Unbounded[T any]() (in chan<- T, out <-chan T) {
	send := make(chan T)
	recv := make(chan T)
	go pump(send, recv)
	return send, recv
}

func pump[T any](in <-chan T, out chan<- T) {
	defer close(out)
	var queue []T
	for {
		if len(queue) == 0 {
			v, ok := <-in
			if !ok {
				return
			}
			queue = append(queue, v)
			continue
		}
		select {
		case v, ok := <-in:
			if !ok {
				for _, v := range queue {
					out <- v
				}
				return
			}
			queue = append(queue, v)
		case out <- queue[0]:
			var zero T
			queue[0] = zero
			queue = queue[1:]
		}
	}
}
