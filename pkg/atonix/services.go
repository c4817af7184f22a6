package atonix

import "context"

const (
	pathInstances          = "/api/services/instances/"
	pathKubernetesClusters = "/api/services/kubernetes-clusters/"
	pathBuckets            = "/api/services/buckets/"
	pathVPCs               = "/api/services/vpcs/"
)

// ListInstances returns the raw JSON listing of compute instances.
func (c *Client) ListInstances(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathInstances)
}

// ListKubernetesClusters returns the raw JSON listing of Kubernetes clusters.
func (c *Client) ListKubernetesClusters(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathKubernetesClusters)
}

// ListBuckets returns the raw JSON listing of storage buckets.
func (c *Client) ListBuckets(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathBuckets)
}

// ListVPCs returns the raw JSON listing of VPCs.
func (c *Client) ListVPCs(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathVPCs)
}
