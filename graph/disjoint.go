package graph

// DisjointSet 基于下标的并查集，路径压缩加按大小合并
type DisjointSet struct {
	parent []int // 父节点下标
	size   []int // 根节点所在集合大小
}

// NewDisjointSet 创建n个单元素集合
func NewDisjointSet(n int) *DisjointSet {
	ds := &DisjointSet{parent: make([]int, n), size: make([]int, n)}
	for i := range n {
		ds.parent[i] = i
		ds.size[i] = 1
	}
	return ds
}

// Len 元素数量
func (ds *DisjointSet) Len() int { return len(ds.parent) }

// Find 查找根节点
func (ds *DisjointSet) Find(x int) int {
	root := x
	for ds.parent[root] != root {
		root = ds.parent[root]
	}
	// 路径压缩
	for ds.parent[x] != root {
		ds.parent[x], x = root, ds.parent[x]
	}
	return root
}

// Union 合并两个集合，返回合并后的根节点
func (ds *DisjointSet) Union(a, b int) int {
	ra, rb := ds.Find(a), ds.Find(b)
	if ra == rb {
		return ra
	}
	if ds.size[ra] < ds.size[rb] {
		ra, rb = rb, ra
	}
	ds.parent[rb] = ra
	ds.size[ra] += ds.size[rb]
	return ra
}

// Size 元素所在集合的大小
func (ds *DisjointSet) Size(x int) int { return ds.size[ds.Find(x)] }

// Same 两个元素是否在同一集合
func (ds *DisjointSet) Same(a, b int) bool { return ds.Find(a) == ds.Find(b) }
