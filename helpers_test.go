package kubectl

import (
	"log/slog"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	fakediscovery "k8s.io/client-go/discovery/fake"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kubefake "k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
)

// newTestClient builds a Client backed entirely by fakes. The same seed
// objects are visible through the typed clientset and the dynamic client.
func newTestClient(t *testing.T, objects ...runtime.Object) (*Client, *kubefake.Clientset) {
	t.Helper()

	clientset := kubefake.NewSimpleClientset(objects...)
	dynamicClient := dynamicfake.NewSimpleDynamicClient(scheme.Scheme, objects...)

	c := &Client{
		restConfig:       &rest.Config{Host: "https://cluster.test:6443"},
		logger:           slog.New(slog.DiscardHandler),
		clientset:        clientset,
		dynamicClient:    dynamicClient,
		discoveryClient:  clientset.Discovery(),
		resourceCache:    make(map[string]*ResourceDescriptor),
		builtinResources: initBuiltinResources(),
	}
	return c, clientset
}

// setDiscoveryResources installs API resource lists into the fake discovery
// client so non-builtin types can be resolved.
func setDiscoveryResources(t *testing.T, clientset *kubefake.Clientset, lists ...*metav1.APIResourceList) {
	t.Helper()

	fd, ok := clientset.Discovery().(*fakediscovery.FakeDiscovery)
	if !ok {
		t.Fatalf("fake clientset returned unexpected discovery type %T", clientset.Discovery())
	}
	fd.Resources = lists
}

// newMetricsTestClient builds a Client whose dynamic fake serves the
// metrics.k8s.io group, with discovery entries so the kinds resolve.
func newMetricsTestClient(t *testing.T, objects ...runtime.Object) *Client {
	t.Helper()

	clientset := kubefake.NewSimpleClientset()
	setDiscoveryResources(t, clientset, &metav1.APIResourceList{
		GroupVersion: "metrics.k8s.io/v1beta1",
		APIResources: []metav1.APIResource{
			{Name: "pods", Kind: "PodMetrics", Namespaced: true, Verbs: []string{"get", "list"}},
			{Name: "nodes", Kind: "NodeMetrics", Verbs: []string{"get", "list"}},
		},
	})

	listKinds := map[schema.GroupVersionResource]string{
		{Group: "metrics.k8s.io", Version: "v1beta1", Resource: "pods"}:  "PodMetricsList",
		{Group: "metrics.k8s.io", Version: "v1beta1", Resource: "nodes"}: "NodeMetricsList",
	}
	dynamicClient := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme.Scheme, listKinds)

	// Seed the tracker under the resource names the discovery document
	// declares; the metrics group's kinds do not pluralize to them.
	for _, obj := range objects {
		u, ok := obj.(*unstructured.Unstructured)
		if !ok {
			t.Fatalf("metrics seed object must be unstructured, got %T", obj)
		}
		gvr := schema.GroupVersionResource{Group: "metrics.k8s.io", Version: "v1beta1"}
		switch u.GetKind() {
		case "PodMetrics":
			gvr.Resource = "pods"
		case "NodeMetrics":
			gvr.Resource = "nodes"
		default:
			t.Fatalf("unexpected metrics kind %q", u.GetKind())
		}
		if err := dynamicClient.Tracker().Create(gvr, u, u.GetNamespace()); err != nil {
			t.Fatalf("seeding %s %q: %v", u.GetKind(), u.GetName(), err)
		}
	}

	return &Client{
		restConfig:       &rest.Config{Host: "https://cluster.test:6443"},
		logger:           slog.New(slog.DiscardHandler),
		clientset:        clientset,
		dynamicClient:    dynamicClient,
		discoveryClient:  clientset.Discovery(),
		resourceCache:    make(map[string]*ResourceDescriptor),
		builtinResources: initBuiltinResources(),
	}
}
