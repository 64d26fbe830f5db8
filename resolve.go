package kubectl

import (
	"context"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// ResourceDescriptor describes an API resource resolved from a type name,
// kind or short-name alias: which group/version serves it, whether it is
// namespace-scoped, and which verbs the server allows on it.
type ResourceDescriptor struct {
	GVR          schema.GroupVersionResource
	Kind         string
	SingularName string
	ShortNames   []string
	Namespaced   bool
	Verbs        []string
}

// GroupVersion returns the apiVersion string for manifests of this resource,
// "v1" for the core group or "group/version" otherwise.
func (d *ResourceDescriptor) GroupVersion() string {
	if d.GVR.Group == "" {
		return d.GVR.Version
	}
	return d.GVR.Group + "/" + d.GVR.Version
}

// hasVerb reports whether the server allows the verb on this resource.
func (d *ResourceDescriptor) hasVerb(verb string) bool {
	for _, v := range d.Verbs {
		if v == verb {
			return true
		}
	}
	return false
}

// standardVerbs are the verbs every builtin resource type supports; the
// fast-path map below skips a discovery round-trip for them.
var standardVerbs = []string{
	"create", "delete", "deletecollection", "get", "list", "patch", "update", "watch",
}

type builtinResource struct {
	gvr        schema.GroupVersionResource
	kind       string
	namespaced bool
}

// initBuiltinResources initializes the builtin resource mapping keyed by
// plural name, singular name and kubectl short name.
func initBuiltinResources() map[string]builtinResource {
	pods := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "pods"}, kind: "Pod", namespaced: true}
	services := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "services"}, kind: "Service", namespaced: true}
	nodes := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "nodes"}, kind: "Node"}
	namespaces := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "namespaces"}, kind: "Namespace"}
	configmaps := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "configmaps"}, kind: "ConfigMap", namespaced: true}
	secrets := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "secrets"}, kind: "Secret", namespaced: true}
	serviceaccounts := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "serviceaccounts"}, kind: "ServiceAccount", namespaced: true}
	pvs := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumes"}, kind: "PersistentVolume"}
	pvcs := builtinResource{gvr: schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumeclaims"}, kind: "PersistentVolumeClaim", namespaced: true}
	deployments := builtinResource{gvr: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}, kind: "Deployment", namespaced: true}
	replicasets := builtinResource{gvr: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "replicasets"}, kind: "ReplicaSet", namespaced: true}
	daemonsets := builtinResource{gvr: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "daemonsets"}, kind: "DaemonSet", namespaced: true}
	statefulsets := builtinResource{gvr: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "statefulsets"}, kind: "StatefulSet", namespaced: true}
	jobs := builtinResource{gvr: schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "jobs"}, kind: "Job", namespaced: true}
	cronjobs := builtinResource{gvr: schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "cronjobs"}, kind: "CronJob", namespaced: true}
	ingresses := builtinResource{gvr: schema.GroupVersionResource{Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"}, kind: "Ingress", namespaced: true}

	return map[string]builtinResource{
		// Core/v1 resources
		"pods":                   pods,
		"pod":                    pods,
		"po":                     pods,
		"services":               services,
		"service":                services,
		"svc":                    services,
		"nodes":                  nodes,
		"node":                   nodes,
		"no":                     nodes,
		"namespaces":             namespaces,
		"namespace":              namespaces,
		"ns":                     namespaces,
		"configmaps":             configmaps,
		"configmap":              configmaps,
		"cm":                     configmaps,
		"secrets":                secrets,
		"secret":                 secrets,
		"serviceaccounts":        serviceaccounts,
		"serviceaccount":         serviceaccounts,
		"sa":                     serviceaccounts,
		"persistentvolumes":      pvs,
		"persistentvolume":       pvs,
		"pv":                     pvs,
		"persistentvolumeclaims": pvcs,
		"persistentvolumeclaim":  pvcs,
		"pvc":                    pvcs,

		// Apps/v1 resources
		"deployments":  deployments,
		"deployment":   deployments,
		"deploy":       deployments,
		"replicasets":  replicasets,
		"replicaset":   replicasets,
		"rs":           replicasets,
		"daemonsets":   daemonsets,
		"daemonset":    daemonsets,
		"ds":           daemonsets,
		"statefulsets": statefulsets,
		"statefulset":  statefulsets,
		"sts":          statefulsets,

		// Batch resources
		"jobs":     jobs,
		"job":      jobs,
		"cronjobs": cronjobs,
		"cronjob":  cronjobs,
		"cj":       cronjobs,

		// Networking resources
		"ingresses": ingresses,
		"ingress":   ingresses,
		"ing":       ingresses,
	}
}

// Resolve maps a resource type name, kind or short-name alias (e.g. "po",
// "deploy", "Certificate") to its descriptor. Builtin types resolve without
// a discovery round-trip; everything else is matched case-insensitively
// against the cluster's discovery document. Successful discovery lookups are
// cached on the client.
func (c *Client) Resolve(ctx context.Context, obj string) (*ResourceDescriptor, error) {
	key := strings.ToLower(obj)

	if builtin, ok := c.builtinResources[key]; ok {
		return &ResourceDescriptor{
			GVR:        builtin.gvr,
			Kind:       builtin.kind,
			Namespaced: builtin.namespaced,
			Verbs:      standardVerbs,
		}, nil
	}

	c.resourceMu.RLock()
	if descriptor, ok := c.resourceCache[key]; ok {
		c.resourceMu.RUnlock()
		return descriptor, nil
	}
	c.resourceMu.RUnlock()

	discoveryClient, err := c.disc()
	if err != nil {
		return nil, err
	}

	// ServerGroupsAndResources may return partial results alongside an
	// error when some API groups are unavailable; partial data is still
	// worth searching.
	_, resourceLists, discErr := discoveryClient.ServerGroupsAndResources()
	if len(resourceLists) == 0 && discErr != nil {
		return nil, discErr
	}

	for _, resourceList := range resourceLists {
		if resourceList == nil {
			continue
		}

		gv, err := schema.ParseGroupVersion(resourceList.GroupVersion)
		if err != nil {
			continue
		}

		for i := range resourceList.APIResources {
			resource := &resourceList.APIResources[i]
			if strings.Contains(resource.Name, "/") {
				continue
			}
			if !resourceMatches(resource.Name, resource.Kind, resource.SingularName, resource.ShortNames, key) {
				continue
			}

			descriptor := &ResourceDescriptor{
				GVR: schema.GroupVersionResource{
					Group:    gv.Group,
					Version:  gv.Version,
					Resource: resource.Name,
				},
				Kind:         resource.Kind,
				SingularName: resource.SingularName,
				ShortNames:   resource.ShortNames,
				Namespaced:   resource.Namespaced,
				Verbs:        resource.Verbs,
			}

			c.resourceMu.Lock()
			c.resourceCache[key] = descriptor
			c.resourceMu.Unlock()

			return descriptor, nil
		}
	}

	return nil, &ResourceTypeError{Type: obj}
}

func resourceMatches(name, kind, singular string, shortNames []string, key string) bool {
	if strings.ToLower(name) == key || strings.ToLower(kind) == key || (singular != "" && strings.ToLower(singular) == key) {
		return true
	}
	for _, short := range shortNames {
		if strings.ToLower(short) == key {
			return true
		}
	}
	return false
}

// APIResources returns every top-level resource in the cluster's discovery
// document (similar to 'kubectl api-resources'). Sub-resources are skipped.
func (c *Client) APIResources(ctx context.Context) ([]ResourceDescriptor, error) {
	c.logOperation("api-resources", "", "", "")

	discoveryClient, err := c.disc()
	if err != nil {
		return nil, err
	}

	_, resourceLists, discErr := discoveryClient.ServerGroupsAndResources()
	if len(resourceLists) == 0 && discErr != nil {
		return nil, discErr
	}

	var descriptors []ResourceDescriptor
	for _, resourceList := range resourceLists {
		if resourceList == nil {
			continue
		}

		gv, err := schema.ParseGroupVersion(resourceList.GroupVersion)
		if err != nil {
			continue
		}

		for _, resource := range resourceList.APIResources {
			if strings.Contains(resource.Name, "/") {
				continue
			}
			descriptors = append(descriptors, ResourceDescriptor{
				GVR: schema.GroupVersionResource{
					Group:    gv.Group,
					Version:  gv.Version,
					Resource: resource.Name,
				},
				Kind:         resource.Kind,
				SingularName: resource.SingularName,
				ShortNames:   resource.ShortNames,
				Namespaced:   resource.Namespaced,
				Verbs:        resource.Verbs,
			})
		}
	}

	return descriptors, nil
}
