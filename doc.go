// Package kubectl provides helper functions over client-go that mimic the
// behaviour of common kubectl subcommands.
//
// The package is a thin, stateless facade: every operation resolves the
// requested resource type against the cluster's discovery document, delegates
// to client-go (dynamic client, clientset or SPDY streams) and converts the
// result's keys to snake_case for the caller. There is no caching beyond the
// per-client resource descriptor cache and no retry logic.
//
// A Client is created from an explicit Config rather than process-global
// state:
//
//	client, err := kubectl.New(kubectl.Config{Context: "production"})
//	if err != nil {
//		return err
//	}
//
//	// kubectl get po my-pod
//	pod, err := client.Get(ctx, "po", "my-pod", kubectl.GetOptions{})
//	if err != nil {
//		return err
//	}
//
//	// kubectl scale deploy my-app --replicas=3
//	_, err = client.Scale(ctx, "deploy", "my-app", 3, kubectl.ApplyOptions{})
//
//	// kubectl logs my-pod -c app
//	logs, err := client.Logs(ctx, "my-pod", kubectl.LogOptions{Container: "app"})
//
// Request bodies are accepted with either snake_case or camelCase keys;
// snake_case keys are rewritten to the camelCase form the API server expects
// before submission. See CamelToSnake, SnakeToCamel and the *Map variants for
// the conversion rules.
//
// Failures are reported as typed errors that can be matched with errors.Is
// against the Err* sentinels declared in this package.
package kubectl
